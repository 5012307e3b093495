package prompt

import (
	"fmt"
	"sort"
	"strings"

	"comm-agent/pkg/api"
)

var toneGuidelines = map[api.Tone]string{
	api.ToneProfessional: "Use a professional and polished tone. Be clear, concise, and business-appropriate.",
	api.ToneFriendly:     "Use a warm and approachable tone. Be personable while maintaining professionalism.",
	api.ToneFormal:       "Use a formal and traditional tone. Be respectful and maintain appropriate distance.",
	api.ToneEmpathetic:   "Use an understanding and supportive tone. Show compassion and acknowledge feelings.",
	api.ToneDirect:       "Use a clear and straightforward tone. Be concise and get to the point quickly.",
}

const emailSystemInstruction = `System: You are a customer support agent responding to customer inquiries. You must follow these rules strictly:
1. Respond AS A SUPPORT AGENT addressing the customer's concerns
2. Output ONLY the email response
3. Do not include any explanations or thinking process
4. Do not use XML-like tags
5. Start with "Dear [Customer's Name],"
6. End with an appropriate signature
7. Maintain the specified tone

RESPONSE STRUCTURE:
1. Acknowledgment of the specific issue
2. Immediate action items or workarounds
3. Next steps and timeline
4. Your contact information and availability
5. Case reference or ticket number`

// BuildEmailPrompt assembles the full prompt for an email response. The
// five-part response structure is fixed; only the tone guidelines and
// customer context vary.
func BuildEmailPrompt(customerMessage string, tone api.Tone, context map[string]string, maxLength int) (string, error) {
	if strings.TrimSpace(customerMessage) == "" {
		return "", fmt.Errorf("customer_message must not be empty")
	}

	guidelines, ok := toneGuidelines[tone]
	if !ok {
		return "", fmt.Errorf("unknown tone: %q", tone)
	}

	var b strings.Builder
	b.WriteString(emailSystemInstruction)
	b.WriteString("\n\nTONE GUIDELINES:\n")
	b.WriteString(guidelines)

	if block := formatContext(context); block != "" {
		b.WriteString("\n\n")
		b.WriteString(block)
	}

	b.WriteString("\n\nCUSTOMER MESSAGE:\n")
	b.WriteString(customerMessage)

	if maxLength > 0 {
		fmt.Fprintf(&b, "\n\nKeep the response within %d characters.", maxLength)
	}

	b.WriteString("\n\nGenerate the support agent's email response below:")

	return b.String(), nil
}

func formatContext(context map[string]string) string {
	if len(context) == 0 {
		return ""
	}

	keys := make([]string, 0, len(context))
	for key := range context {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("Customer Context:")
	for _, key := range keys {
		fmt.Fprintf(&b, "\n- %s: %s", titleKey(key), context[key])
	}
	return b.String()
}

// titleKey turns a snake_case context key into a readable label, e.g.
// "account_type" -> "Account Type".
func titleKey(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
