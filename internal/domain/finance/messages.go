package finance

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DateLayout is how dates appear in user-facing messages
const DateLayout = "02/01/2006"

// genericReminderText is used when a reminder has neither a target nor a message
const genericReminderText = "You have a reminder."

// MessageBuilder renders user-facing notification texts with locale-aware
// amounts and dates in the reporting timezone
type MessageBuilder struct {
	printer *message.Printer
	loc     *time.Location
}

// NewMessageBuilder creates a builder for the given BCP 47 locale.
// An unparsable locale falls back to English.
func NewMessageBuilder(locale string, loc *time.Location) *MessageBuilder {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	if loc == nil {
		loc = time.UTC
	}
	return &MessageBuilder{
		printer: message.NewPrinter(tag),
		loc:     loc,
	}
}

// Amount formats a money amount with locale grouping and at most two decimals
func (b *MessageBuilder) Amount(d decimal.Decimal) string {
	return b.printer.Sprint(number.Decimal(d.InexactFloat64(), number.MaxFractionDigits(2)))
}

// Date formats t as a calendar day in the reporting timezone
func (b *MessageBuilder) Date(t time.Time) string {
	return t.In(b.loc).Format(DateLayout)
}

// DebtPaidOff is the Update sent when a debt is fully repaid
func (b *MessageBuilder) DebtPaidOff(d *Debt) string {
	return b.printer.Sprintf("Your debt of %s has been paid in full.", b.Amount(d.Principal))
}

// DebtOverdue is the Warning sent when a debt passes its end date. A debt
// repaid only after that date is reported as having been overdue.
func (b *MessageBuilder) DebtOverdue(d *Debt) string {
	if d.IsFullyPaid() {
		return b.printer.Sprintf("Your debt of %s was overdue since %s.",
			b.Amount(d.Principal), b.Date(*d.EndDate))
	}
	return b.printer.Sprintf("Your debt of %s is overdue since %s. Outstanding: %s.",
		b.Amount(d.Principal), b.Date(*d.EndDate), b.Amount(d.Outstanding()))
}

// DebtPaymentDue is the Reminder sent on the day a debt payment is due
func (b *MessageBuilder) DebtPaymentDue(d *Debt) string {
	return b.printer.Sprintf("A payment on your debt of %s is due today. Outstanding: %s.",
		b.Amount(d.Principal), b.Amount(d.Outstanding()))
}

// GoalOverdue is the Warning sent when a savings goal misses its deadline.
// The monthly reconciler and the overdue sweep share this text so that
// deduplication by message matches across both.
func (b *MessageBuilder) GoalOverdue(g *SavingGoal) string {
	return b.printer.Sprintf("Your savings goal \"%s\" passed its deadline on %s without reaching its target of %s.",
		g.Name, b.Date(g.Deadline), b.Amount(g.Target))
}

// GoalCompleted is the Update sent when a savings goal reaches its target
func (b *MessageBuilder) GoalCompleted(g *SavingGoal) string {
	return b.printer.Sprintf("Congratulations! Your savings goal \"%s\" reached its target of %s.",
		g.Name, b.Amount(g.Target))
}

// GoalReminder describes a savings goal for a reminder
func (b *MessageBuilder) GoalReminder(g *SavingGoal) string {
	return b.printer.Sprintf("Reminder for your savings goal \"%s\": %s of %s saved, deadline %s.",
		g.Name, b.Amount(g.Current), b.Amount(g.Target), b.Date(g.Deadline))
}

// DebtReminder describes a debt for a reminder
func (b *MessageBuilder) DebtReminder(d *Debt) string {
	if d.NextPaymentDate != nil {
		return b.printer.Sprintf("Reminder for your debt of %s: %s outstanding, next payment on %s.",
			b.Amount(d.Principal), b.Amount(d.Outstanding()), b.Date(*d.NextPaymentDate))
	}
	return b.printer.Sprintf("Reminder for your debt of %s: %s outstanding.",
		b.Amount(d.Principal), b.Amount(d.Outstanding()))
}

// InvestmentReminder describes an investment for a reminder
func (b *MessageBuilder) InvestmentReminder(i *Investment) string {
	return b.printer.Sprintf("Reminder for your investment \"%s\": current value %s, invested %s.",
		i.Name, b.Amount(i.CurrentValue), b.Amount(i.Invested))
}

// ReminderText combines a resolved target description with the reminder's
// own message. Either part may be empty.
func (b *MessageBuilder) ReminderText(targetText, stored string) string {
	switch {
	case targetText != "" && stored != "":
		return targetText + " " + stored
	case targetText != "":
		return targetText
	case stored != "":
		return stored
	default:
		return genericReminderText
	}
}
