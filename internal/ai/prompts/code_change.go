package prompts

import "fmt"

func GetCodeChangePrompt(userQuery string, contextFiles string) (string, string) {
	prompt := `
		User's instruction:
		---
		%s
		---

		Here are the most relevant existing files from the project:
		---
		%s
		---

		Please respond with updated or new files wrapped in file tags:

		<file path="src/components/Hero.tsx">
		...full updated content...
		</file>

		Only return the modified or newly added files. Do not include duplicates or files that were not changed.
		Always re-emit the complete content of every file you change.
	`

	fullprompt := fmt.Sprintf(prompt, userQuery, contextFiles)
	systemPrompt := `
		You are a code assistant helping to **update an existing project**.
		Respond ONLY with <file path="..."> blocks for modified or new files as requested.
	`

	return fullprompt, systemPrompt
}
