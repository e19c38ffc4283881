package handlers

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/spacegothic/internal/frontend/telnet"
	"github.com/cory-johannsen/spacegothic/internal/game/character"
	"github.com/cory-johannsen/spacegothic/internal/game/combat"
	"github.com/cory-johannsen/spacegothic/internal/game/command"
	"github.com/cory-johannsen/spacegothic/internal/game/inventory"
)

const (
	gaugeFull  = "■"
	gaugeEmpty = "□"
)

// RenderCharacter formats the attribute block, derived stats, budget and traits.
// Attributes are numbered from 1 as the reroll command expects.
func RenderCharacter(st *character.State) string {
	var b strings.Builder
	b.WriteString(telnet.Colorize(telnet.BrightYellow, "MERCENARY ATTRIBUTES"))
	b.WriteString("\n")
	for i := 0; i < character.AttributeCount; i++ {
		a := character.Attribute(i)
		fmt.Fprintf(&b, "  %d. %s %s\n", i+1,
			telnet.PadRight(a.String(), 14),
			telnet.Colorf(telnet.BrightWhite, "%3d", st.Attributes.Get(a)))
	}
	b.WriteString(telnet.Colorize(telnet.Cyan, "Derived"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s %3d\n", telnet.PadRight("Luck", 20), st.Derived.Luck)
	fmt.Fprintf(&b, "  %s %3d\n", telnet.PadRight("Career skill points", 20), st.Derived.CareerSkillPoints)
	fmt.Fprintf(&b, "  %s %3d\n", telnet.PadRight("Free skill points", 20), st.Derived.FreeSkillPoints)
	fmt.Fprintf(&b, "Rerolls left: %s\n", renderBudget(st.Budget))
	if st.MonthlyWage > 0 {
		fmt.Fprintf(&b, "Monthly wage: %d EU\n", st.MonthlyWage)
	}
	if len(st.Traits) == 0 {
		b.WriteString(telnet.Colorize(telnet.Dim, "No special traits."))
	} else {
		b.WriteString("Special traits:\n")
		for _, t := range st.Traits {
			fmt.Fprintf(&b, "  - %s\n", telnet.Colorize(telnet.Magenta, string(t)))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderBudget(budget character.RerollBudget) string {
	color := telnet.Green
	if budget.Exhausted() {
		color = telnet.Red
	}
	return telnet.Colorf(color, "%d/%d", budget.Remaining(), budget.Limit)
}

// RenderMagazine formats the magazine gauge, e.g. "■■■□□ 3/5".
func RenderMagazine(mag inventory.Magazine) string {
	color := telnet.BrightGreen
	if mag.Loaded*3 < mag.Capacity {
		color = telnet.BrightRed
	}
	return fmt.Sprintf("%s %d/%d", telnet.Colorize(color, mag.Gauge(gaugeFull, gaugeEmpty)), mag.Loaded, mag.Capacity)
}

// RenderVolley formats one volley shot by shot followed by the magazine gauge.
func RenderVolley(res combat.VolleyResult, mag inventory.Magazine) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s at %d%%:\n", telnet.Colorize(telnet.Bold, res.Mode.Label()), res.Chance)
	for i, roll := range res.HitRolls {
		if dmg := res.DamageRolls[i]; roll <= res.Chance {
			fmt.Fprintf(&b, "  shot %d: rolled %3d %s for %d damage\n", i+1, roll, telnet.Colorize(telnet.BrightGreen, "HIT"), dmg)
		} else {
			fmt.Fprintf(&b, "  shot %d: rolled %3d %s\n", i+1, roll, telnet.Colorize(telnet.BrightBlack, "miss"))
		}
	}
	fmt.Fprintf(&b, "Hits: %d/%d  Total damage: %s\n", res.Hits, res.Shots, telnet.Colorf(telnet.BrightRed, "%d", res.TotalDamage))
	b.WriteString(RenderMagazine(mag))
	return b.String()
}

// RenderEngagement formats the weapon at its selected range band.
func RenderEngagement(e *combat.Engagement) string {
	w := e.Weapon
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s damage)\n", telnet.Colorize(telnet.BrightYellow, w.Name), w.DamageDice)
	for _, band := range inventory.RangeBands {
		r := w.Range(band)
		marker := " "
		if band == e.Band {
			marker = telnet.Colorize(telnet.BrightGreen, ">")
		}
		fmt.Fprintf(&b, " %s %-6s %3dm  %3d%%\n", marker, band, r.DistanceMeters, combat.HitChance(w, band))
	}
	b.WriteString(RenderMagazine(*e.Magazine))
	return b.String()
}

// RenderDossier formats every dossier field, blank ones dimmed.
func RenderDossier(d character.Dossier) string {
	var b strings.Builder
	b.WriteString(telnet.Colorize(telnet.BrightYellow, "TERRAN SECURITY ARCHIVE - PERSONAL DOSSIER"))
	for _, f := range character.DossierFields() {
		b.WriteString("\n  ")
		b.WriteString(telnet.PadRight(f+":", 30))
		if v, ok := d[f]; ok {
			b.WriteString(v)
		} else {
			b.WriteString(telnet.Colorize(telnet.Dim, "-"))
		}
	}
	return b.String()
}

// RenderHelp lists registry commands grouped by category.
func RenderHelp(r *command.Registry) string {
	byCat := r.CommandsByCategory()
	var b strings.Builder
	b.WriteString(telnet.Colorize(telnet.BrightWhite, "Available commands:"))
	for _, cat := range []string{command.CategoryCharacter, command.CategoryCombat, command.CategoryDossier, command.CategorySystem} {
		cmds := byCat[cat]
		if len(cmds) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s", telnet.Colorize(telnet.Cyan, strings.ToUpper(cat)))
		for _, c := range cmds {
			usage := c.Name
			if c.Usage != "" {
				usage += " " + c.Usage
			}
			fmt.Fprintf(&b, "\n  %s %s", telnet.PadRight(telnet.Colorize(telnet.Green, usage), 30), c.Help)
		}
	}
	return b.String()
}
