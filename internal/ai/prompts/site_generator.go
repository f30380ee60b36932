package prompts

// Prompt template for the initial generation round.
func GetProjectGenerationPrompt() string {
	return `
		You are a full-stack app generator AI.

		A user has submitted the following project description:

		---
		"%s"
		---

		Please create a **multi-file project** based on the following rules:

		1.  **Frontend Framework**: React + TypeScript (Vite)
		2.  **Styling**: TailwindCSS, consistent color theme:
			*   Primary: #1A73E8
			*   Accent: #FF6F61
			*   Background: #F9FAFB
			*   Font: Inter, sans-serif
		3.  **Layout**: Responsive grid, cards with soft shadows and rounded corners
		4.  **Pages to Include** (at minimum):
			*   ` + "`src/App.tsx`" + `: wrap routes and layout
			*   ` + "`src/main.tsx`" + `: app root
			*   ` + "`src/components/Navbar.tsx`" + `, ` + "`Footer.tsx`" + `
			*   ` + "`tailwind.config.ts`" + `: theme customization
			*   ` + "`vite.config.ts`" + `: default Vite config
			*   ` + "`package.json`" + `: all libraries and dependencies used across the files

		Emit every file wrapped in file tags, nothing else between them:

		<file path="src/App.tsx">
		...full file content...
		</file>
		<file path="src/components/Navbar.tsx">
		...full file content...
		</file>

		Start each file only after the previous one is fully closed.
		Only include code — no extra explanation. Your output will be parsed and saved as project files.
	`
}
