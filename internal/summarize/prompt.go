package summarize

import "fmt"

const systemPrompt = `You are a professional software developer who summarises git diffs and turns them into meaningful commit messages. Write with brevity, clarity and professionalism, and use correct line endings and spacing so the message is easy to read.`

const draftTemplate = `As an experienced code reviewer, write a clear, professional and detailed commit message for the git diff below. Start with a single-line summary that captures the overall intent of the changes, followed by a blank line and then a more detailed explanation where needed. The explanation should give the reason behind the changes, name the parts of the system that are affected, and note any consequences or benefits that are not obvious from the code itself.

Here is the git diff to summarise:
%s

Format the commit message as a summary line, a blank line, and the detailed explanation.`

const refinePrompt = `Revise the commit message you just wrote. Remove any file-by-file breakdown of the changes: the version history already records which files changed. Keep the summary line, the blank line and the explanation of why the change was made and what it affects. Reply with the revised commit message only.`

// draftPrompt embeds the report verbatim in the first user message.
func draftPrompt(report string) string {
	return fmt.Sprintf(draftTemplate, report)
}
