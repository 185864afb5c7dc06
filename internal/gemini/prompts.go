package gemini

import (
	"fmt"
	"strings"
)

// RetrievalQuery is the fixed query used to rank document paragraphs
// for draft generation.
const RetrievalQuery = "Summarize the project overview, milestones and tasks."

// planFormat is the JSON skeleton every scheduling reply must follow.
const planFormat = `{
  "projects": [
    {
      "name": "...",
      "summary": "...",
      "start_time": "...",
      "end_time": "...",
      "due_date": "...",
      "estimated_loading": ...,
      "current_milestone": "...",
      "milestones": [
        {
          "name": "...",
          "summary": "...",
          "start_time": "...",
          "end_time": "...",
          "estimated_loading": ...,
          "tasks": [
            {
              "title": "...",
              "description": "...",
              "due_date": "...",
              "estimated_loading": ...,
              "is_completed": false
            }
          ]
        }
      ]
    }
  ]
}`

// schedulingRules are the workload and date constraints shared by every
// scheduling prompt.
const schedulingRules = `1. Every date and time field (start_time, end_time, due_date) must be filled in; none may be null.
2. Every estimated_loading must be a reasonable positive integer estimate (for example 5, 10, 20); never null and never 0.
3. Each milestone must break down into at least 3 concrete tasks.
4. Task names and descriptions must follow sensibly from the milestone summary; avoid vague or duplicated tasks.
5. Assign each task's due_date from its logical order and workload, keeping it before the end of its milestone.
6. A milestone's estimated_loading may exceed the sum of its tasks' estimated_loading by at most 10 hours.
7. Estimate workloads by task type:
   - document work (report writing, data collation, meeting notes) is usually 5-10 hours
   - development work (API implementation, database design, frontend work) is usually 20-60 hours
8. Return the project in exactly the given format with no structural changes.
9. Never modify any task that is already completed.
10. Reply with pure JSON matching the format only; no extra explanation or commentary.`

// RefineChunksPrompt asks the model to pick the most relevant retrieved
// paragraphs verbatim, without rewriting them.
func RefineChunksPrompt(chunks []string) string {
	return fmt.Sprintf(`You are a professional document comprehension assistant.

From the content below, select the roughly 5-8 paragraphs most relevant to "%s" and list them unchanged. Do not add new content.

Follow these rules:
- Separate paragraphs with "---".
- Keep the original paragraphs only; do not rewrite or re-summarize them.
- Keep the total length of the selection to about 1000-1500 words.

Here is the original content:
%s`, RetrievalQuery, strings.Join(chunks, "\n\n"))
}

// DraftPrompt asks for the initial structured plan of a fresh project.
func DraftPrompt(context, title, deadline, today string) string {
	return fmt.Sprintf(`Read the content below and organize the project information into structured JSON:
- Project: the overall project information.
- Milestone: the major phases and deliverables of the project.
- Task: concrete work items derived from each milestone summary.
- Today is %s; the project's start_time is also %s and all scheduling starts from today.
- The project's name is %s.
- The project's due_date and end_time are both %s.

Output JSON in this format:
%s

Follow these rules:
%s
Additionally:
- current_milestone must be the name of the first milestone in the milestones array; never null.
- Keep the project's total estimated_loading under 100 hours, at most 99.

Here is the content:
%s`, today, today, title, deadline, planFormat, schedulingRules, context)
}

// InsertTaskPrompt asks the model to place a new task into its target
// milestone in date order and shift later tasks to stay consistent.
func InsertTaskPrompt(projectJSON, newTaskJSON string) string {
	return fmt.Sprintf(`You are a professional project planning assistant. Your job is to insert a new task into the project. Place the new task into the milestone given by its milestone_id according to its due date and expected workload, and shift the due dates of the tasks after it so the milestone stays chronologically consistent.

This is the current project:
%s

This is the new task:
%s

Follow these rules:
%s
Additionally:
- The new task's due date must come after the due dates of all completed tasks in its milestone.

Here is the reply format; fill the project content into it:
%s

Return only the updated JSON without any additional text or explanation.`, projectJSON, newTaskJSON, schedulingRules, planFormat)
}

// UpdateTaskPrompt asks the model to reposition an edited task within
// its milestone and adjust neighboring due dates.
func UpdateTaskPrompt(projectJSON, updatedTaskJSON string) string {
	return fmt.Sprintf(`You are a professional project planning assistant. Your job is to adjust the overall project plan for a task that already exists but has been updated. Re-place the updated task within the same milestone according to its due date and expected workload, and shift the due dates of the tasks after it accordingly.

This is the current project:
%s

This is the updated task:
%s

Follow these rules:
%s

Here is the reply format; fill the project content into it:
%s

Return only the updated JSON without any additional text or explanation.`, projectJSON, updatedTaskJSON, schedulingRules, planFormat)
}

// ChatReplanPrompt asks the model to regenerate the plan from the chat
// transcript.
func ChatReplanPrompt(projectJSON, transcript string) string {
	return fmt.Sprintf(`You are a project assistant. Based on the original project plan JSON and the user's full feedback transcript below, regenerate the project plan.

## Format:
Produce content matching this JSON structure (keep field names and nesting):
%s

## Adjustment rules:
1. Adjust milestone and task counts, descriptions and workloads according to the chat discussion.
2. Each milestone must break down into at least 3 concrete tasks.
3. Every estimated_loading must be a reasonable integer.
4. Assign each task's due_date sensibly before the end of its milestone.
5. Output the JSON result only, with no explanatory text.

## Original project content:
%s

## User conversation transcript:
%s

## Output the JSON result matching the format directly, with no additional explanation or commentary.`, planFormat, projectJSON, transcript)
}

// MarkdownPrompt asks the model to render a plan tree as readable
// markdown.
func MarkdownPrompt(jsonStr string) string {
	return fmt.Sprintf(`Please convert the following JSON data into a well-formatted Markdown document. Make it readable and properly structured with appropriate headers and sections.

JSON Data:
%s

Note:
1. Don't add words or explanation that aren't relevant to the JSON data.
2. Don't give another translated version of the project summary.`, jsonStr)
}
