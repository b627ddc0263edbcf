package rules

const suggestSpec = `Respond with a JSON object matching this exact structure:

{
  "rule_id": "<OPTIONAL_UPPERCASE_ID>",
  "rule_name": "<short name>",
  "template": "<check template expression>",
  "severity": "error",
  "confidence": 0.0,
  "explanation": "<explanation>",
  "code": "<optional executable check body>",
  "executable": false
}

Field constraints:
- rule_id: Optional proposed identifier, UPPERCASE_SNAKE_CASE. Omit when
  no natural identifier exists; one will be generated on approval.
- rule_name: Short human-readable name for the check.
- template: The check expressed against the named column, using the
  engine's template syntax (e.g. "not_null(amount)",
  "matches(amount, '^\\d+\\.\\d{2}$')").
- severity: One of "error", "warning", "info".
- confidence: Your confidence in the suggested check, 0.0 to 1.0.
- explanation: Why this check fits the column, referencing the profile
  statistics provided in the prompt.
- code: Optional executable check body when the template syntax cannot
  express the requested validation. Empty string otherwise.
- executable: Whether the engine can execute this check as written. Set
  false when the request cannot be turned into a runnable check; the
  user cannot approve a non-executable suggestion.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Suggest exactly one check per response
- Ground the check in the column profile when one is provided
- Never suggest a check for a column other than the one requested`
