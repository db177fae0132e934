package content

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/insureco/advisor-cli/internal/model"
	"github.com/insureco/advisor-cli/internal/refdata"
)

// EmailKind selects which template in the outreach sequence to render.
type EmailKind string

const (
	EmailInitial       EmailKind = "initial"
	EmailFollowUp1Week EmailKind = "followUp1Week"
	EmailFollowUp2Week EmailKind = "followUp2Weeks"
)

// printer renders EUR amounts with thousands separators.
var printer = message.NewPrinter(language.English)

// euro formats a whole EUR amount with grouping separators.
func euro(amount int) string {
	return printer.Sprintf("€%d", amount)
}

// firstName returns the leading word of a full name.
func firstName(fullName string) string {
	fields := strings.Fields(fullName)
	if len(fields) == 0 {
		return fullName
	}
	return fields[0]
}

// monthlyPremium converts an annual premium to a rounded monthly one.
func monthlyPremium(annual int) int {
	return int(math.Round(float64(annual) / 12))
}

// BuildEmail renders the outreach email for an opportunity. Unknown
// kinds fall back to the initial template.
func BuildEmail(op model.Opportunity, kind EmailKind) string {
	switch kind {
	case EmailFollowUp1Week:
		return followUp1WeekEmail(op)
	case EmailFollowUp2Week:
		return followUp2WeeksEmail(op)
	default:
		return initialEmail(op)
	}
}

func initialEmail(op model.Opportunity) string {
	monthly := monthlyPremium(op.EstimatedPremium)
	personaLower := strings.ToLower(string(op.Persona))
	categoryLower := strings.ToLower(string(op.Category))

	var b strings.Builder
	fmt.Fprintf(&b, "Subject: %s Coverage Recommendation for %s\n\n", op.Category, op.ClientName)
	fmt.Fprintf(&b, "Hi %s,\n\n", firstName(op.ClientName))
	fmt.Fprintf(&b, "It was great speaking with you today. As we discussed, I wanted to follow up with some details about the %s that could be a strong fit for your situation.\n\n", op.ProductName)
	fmt.Fprintf(&b, "**Why This Matters for You:**\n%s\n\n", op.Reason)
	b.WriteString("**Key Benefits:**\n")
	fmt.Fprintf(&b, "- %s\n", refdata.ValueStatement(op.Category))
	fmt.Fprintf(&b, "- Premium: %s/year (about €%d/month)\n", euro(op.EstimatedPremium), monthly)
	fmt.Fprintf(&b, "- Tailored specifically for %ss like yourself\n\n", personaLower)
	b.WriteString("**What Makes This Different:**\n")
	b.WriteString("Unlike typical insurance policies, this solution addresses the specific needs we identified:\n")
	fmt.Fprintf(&b, "- Protection against %s-specific risks in your situation\n", categoryLower)
	b.WriteString("- Coverage that grows with your changing life circumstances\n")
	b.WriteString("- Direct support and advocacy when you need it most\n\n")

	if len(op.LifeEvents) > 0 {
		fmt.Fprintf(&b, "**Timely Opportunity:**\nI noticed you're in a %s phase. This makes %s coverage especially relevant right now.\n\n",
			strings.ToLower(op.LifeEvents[0].Label), op.Category)
	}

	b.WriteString("**Next Steps:**\n")
	b.WriteString("I'd recommend we schedule a brief 15-minute call to walk through the coverage details and answer any questions. This way, you can make an informed decision that feels right for your situation.\n\n")
	b.WriteString("Are you available this week for a quick call?\n\n")
	b.WriteString("Looking forward to helping you secure the protection you need.\n\n")
	fmt.Fprintf(&b, "Best regards,\n%s\n\n", op.SalesRepName)

	rateLine := "are lowest when you're younger and healthier"
	if op.Age >= 50 {
		rateLine = "increase with age"
	}
	fmt.Fprintf(&b, "P.S. Remember, premium rates %s. Locking in coverage now ensures you get the best possible rate.", rateLine)

	return b.String()
}

func followUp1WeekEmail(op model.Opportunity) string {
	monthly := monthlyPremium(op.EstimatedPremium)
	personaLower := strings.ToLower(string(op.Persona))
	categoryLower := strings.ToLower(string(op.Category))

	var b strings.Builder
	fmt.Fprintf(&b, "Subject: Quick Follow-up: %s Coverage for %s\n\n", op.Category, op.ClientName)
	fmt.Fprintf(&b, "Hi %s,\n\n", firstName(op.ClientName))
	fmt.Fprintf(&b, "I wanted to follow up on my email from last week about %s coverage. I know you're busy, so I'll keep this brief.\n\n", op.Category)
	b.WriteString("**Quick Recap:**\n")
	fmt.Fprintf(&b, "- Product: %s\n", op.ProductName)
	fmt.Fprintf(&b, "- Monthly Investment: €%d\n", monthly)
	fmt.Fprintf(&b, "- Why it matters: %s\n\n", op.Reason)
	fmt.Fprintf(&b, "I've helped many %ss protect their %s situation, and I'd love to do the same for you.\n\n", personaLower, categoryLower)
	b.WriteString("Do you have 10 minutes this week for a quick call? I can answer any questions and walk you through the specifics.\n\n")
	b.WriteString("Just reply with a good time, or feel free to call me directly.\n\n")
	fmt.Fprintf(&b, "Best,\n%s", op.SalesRepName)

	return b.String()
}

func followUp2WeeksEmail(op model.Opportunity) string {
	monthly := monthlyPremium(op.EstimatedPremium)
	personaLower := strings.ToLower(string(op.Persona))
	categoryLower := strings.ToLower(string(op.Category))

	var b strings.Builder
	fmt.Fprintf(&b, "Subject: Final follow-up: %s Protection\n\n", op.Category)
	fmt.Fprintf(&b, "Hi %s,\n\n", firstName(op.ClientName))
	fmt.Fprintf(&b, "I don't want to be a pest, so this will be my last follow-up email. But I also don't want you to miss out on important %s protection.\n\n", categoryLower)
	b.WriteString("**The Bottom Line:**\n")
	fmt.Fprintf(&b, "At €%d/month, the %s provides crucial protection that many %ss overlook until it's too late.\n\n", monthly, op.ProductName, personaLower)
	b.WriteString("If now's not the right time, I completely understand. But if you'd like to discuss this or any other coverage, I'm here to help - no pressure.\n\n")
	b.WriteString("Just let me know if you'd like me to follow up in a few months, or if you have any questions I can answer via email.\n\n")
	fmt.Fprintf(&b, "Wishing you all the best,\n%s\n\n", op.SalesRepName)
	b.WriteString("P.S. Feel free to reach out anytime - my door is always open.")

	return b.String()
}
