package classify

import "fmt"

// promptTemplate embeds the investment thesis the analyst team reviews
// inbound opportunities against. The response contract is three JSON keys;
// anything else is rejected at parse time.
const promptTemplate = `As a venture capital analyst, review the following inbound partnership opportunity.
Our investment thesis focuses on B2B SaaS companies in Pakistan with early traction.

Opportunity Description: "%s"

Analyze the description and provide a JSON object with three keys:
1. "summary": A one-sentence summary of the company's business model.
2. "alignment_score": An integer score from 1 (poor fit) to 5 (perfect fit) based on our investment thesis.
3. "suggested_next_step": A brief, actionable next step for our team (e.g., "Request pitch deck," "Schedule initial screening call," or "Forward to portfolio company for partnership").

Respond with ONLY the valid JSON object and nothing else.`

// BuildPrompt renders the deterministic classification prompt for one
// opportunity description.
func BuildPrompt(description string) string {
	return fmt.Sprintf(promptTemplate, description)
}
