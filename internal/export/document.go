// Package export renders plans and trainee cards as branded HTML documents.
package export

import (
	"alcyxob/gymdesk/internal/domain"
	"bytes"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// Document kinds, also used as the storage key prefix.
const (
	KindWorkout     = "workout"
	KindDiet        = "diet"
	KindTraineeCard = "trainee"
)

const dateLayout = "02 Jan 2006"

// Raw HTML in user-entered names is escaped because WithUnsafe is not set.
var mdRenderer = goldmark.New(
	goldmark.WithExtensions(extension.Table),
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// Letterhead is the fixed branding printed at the top of every document.
type Letterhead struct {
	GymName string
	Address string
	Phone   string
}

func (l Letterhead) markdown(b *strings.Builder) {
	fmt.Fprintf(b, "# %s\n\n", inline(l.GymName))
	var contact []string
	if l.Address != "" {
		contact = append(contact, inline(l.Address))
	}
	if l.Phone != "" {
		contact = append(contact, "Phone: "+inline(l.Phone))
	}
	if len(contact) > 0 {
		b.WriteString(strings.Join(contact, " · "))
		b.WriteString("\n\n")
	}
	b.WriteString("---\n\n")
}

var mdEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`, "#", `\#`,
	"|", `\|`, "[", `\[`, "]", `\]`, "\n", " ",
)

// inline escapes free text so it renders literally inside a markdown line.
func inline(s string) string {
	return mdEscaper.Replace(strings.TrimSpace(s))
}

// WorkoutMarkdown lays out a workout plan day by day.
func WorkoutMarkdown(l Letterhead, p *domain.WorkoutPlan) string {
	var b strings.Builder
	l.markdown(&b)
	fmt.Fprintf(&b, "## Workout Plan: %s\n\n", inline(p.TraineeName))
	fmt.Fprintf(&b, "Last updated %s\n\n", p.UpdatedAt.Format(dateLayout))
	for i, d := range p.Days {
		fmt.Fprintf(&b, "### Day %d: %s\n\n", i+1, inline(d.Name))
		if d.Notes != "" {
			fmt.Fprintf(&b, "*%s*\n\n", inline(d.Notes))
		}
		b.WriteString("| # | Exercise | Sets | Reps | Notes |\n|---|---|---|---|---|\n")
		for j, ex := range d.Exercises {
			fmt.Fprintf(&b, "| %d | %s | %d | %s | %s |\n", j+1, inline(ex.Name), ex.Sets, inline(ex.Reps), inline(ex.Notes))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// DietMarkdown lays out a diet plan day by day, meal by meal.
func DietMarkdown(l Letterhead, p *domain.DietPlan) string {
	var b strings.Builder
	l.markdown(&b)
	fmt.Fprintf(&b, "## Diet Plan: %s\n\n", inline(p.TraineeName))
	fmt.Fprintf(&b, "Last updated %s\n\n", p.UpdatedAt.Format(dateLayout))
	for _, d := range p.Days {
		fmt.Fprintf(&b, "### Day %d: %s\n\n", d.DayNumber, inline(d.DayName))
		for _, m := range d.Meals {
			title := string(m.Type)
			if m.Name != "" {
				title += " (" + inline(m.Name) + ")"
			}
			fmt.Fprintf(&b, "**%s**\n\n", title)
			for _, f := range m.FoodItems {
				if f.Quantity != "" {
					fmt.Fprintf(&b, "- %s: %s\n", inline(f.Name), inline(f.Quantity))
				} else {
					fmt.Fprintf(&b, "- %s\n", inline(f.Name))
				}
			}
			if m.Notes != "" {
				fmt.Fprintf(&b, "\n*%s*\n", inline(m.Notes))
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// TraineeCardMarkdown summarizes a trainee's membership. trainerName may be empty.
func TraineeCardMarkdown(l Letterhead, t *domain.Trainee, trainerName string, now time.Time) string {
	var b strings.Builder
	l.markdown(&b)
	fmt.Fprintf(&b, "## Member Card: %s\n\n", inline(t.Name))
	b.WriteString("| Field | Value |\n|---|---|\n")
	row := func(k, v string) { fmt.Fprintf(&b, "| %s | %s |\n", k, v) }
	row("Member ID", inline(t.EffectiveMemberID()))
	row("Phone", inline(t.PhoneNumber))
	row("Goal", string(t.GoalCategory))
	row("Membership", fmt.Sprintf("%d month(s)", t.MembershipDuration))
	row("Start", t.MembershipStartDate.Format(dateLayout))
	row("End", t.MembershipEndDate.Format(dateLayout))
	row("Status", string(t.Status(now)))
	row("Admission fee", fmt.Sprintf("%.2f", t.AdmissionFee))
	row("Payment", string(t.PaymentType))
	if t.SpecialTraining {
		row("Trainer", inline(trainerName))
	}
	b.WriteString("\n")
	return b.String()
}

// RenderHTML converts markdown into a standalone HTML page.
func RenderHTML(title, markdown string) ([]byte, error) {
	var body bytes.Buffer
	if err := mdRenderer.Convert([]byte(markdown), &body); err != nil {
		return nil, errors.Wrap(err, "render markdown")
	}

	var page bytes.Buffer
	page.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&page, "<title>%s</title>\n", html.EscapeString(title))
	page.WriteString("<style>body{font-family:sans-serif;max-width:50em;margin:2em auto}" +
		"table{border-collapse:collapse;width:100%}td,th{border:1px solid #ccc;padding:.3em .5em;text-align:left}</style>\n")
	page.WriteString("</head>\n<body>\n")
	page.Write(body.Bytes())
	page.WriteString("</body>\n</html>\n")
	return page.Bytes(), nil
}

// ExpiryDigestMarkdown lists memberships about to expire, for the owner's daily email.
func ExpiryDigestMarkdown(l Letterhead, list []domain.ExpiringMembership, now time.Time) string {
	var b strings.Builder
	l.markdown(&b)
	fmt.Fprintf(&b, "## Memberships expiring soon (%s)\n\n", now.Format(dateLayout))
	if len(list) == 0 {
		b.WriteString("No memberships expire in the coming days.\n")
		return b.String()
	}
	b.WriteString("| Trainee | Phone | Expires | Days left |\n|---|---|---|---|\n")
	for _, e := range list {
		fmt.Fprintf(&b, "| %s | %s | %s | %d |\n", inline(e.TraineeName), inline(e.PhoneNumber), e.ExpiryDate.Format(dateLayout), e.DaysUntilExpiry)
	}
	return b.String()
}
