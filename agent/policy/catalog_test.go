package policy

import (
	"strings"
	"testing"
)

func TestCatalogAll(t *testing.T) {
	t.Parallel()

	c := NewCatalog()
	all := c.All()
	if len(all) != 12 {
		t.Fatalf("expected 12 policies, got %d", len(all))
	}
	if all[0].Name != "Standard Return Policy" {
		t.Fatalf("unexpected first policy: %s", all[0].Name)
	}
	if all[len(all)-1].Name != "Website Functionality Issues" {
		t.Fatalf("unexpected last policy: %s", all[len(all)-1].Name)
	}
}

func TestCatalogGet(t *testing.T) {
	t.Parallel()

	c := NewCatalog()
	p, ok := c.Get("Damaged Item Policy")
	if !ok {
		t.Fatal("expected policy to exist")
	}
	if !strings.Contains(p.Description, "immediate replacement or full refund") {
		t.Fatalf("unexpected description: %s", p.Description)
	}
	if _, ok := c.Get("Loyalty Points Policy"); ok {
		t.Fatal("unexpected hit for unknown policy name")
	}
}

func TestForProblem(t *testing.T) {
	t.Parallel()

	c := NewCatalog()

	damaged := c.ForProblem(ProblemDamaged)
	names := make([]string, 0, len(damaged))
	for _, p := range damaged {
		names = append(names, p.Name)
	}
	want := []string{"Damaged Item Policy", "Premium Customer Service", "First-Time Customer Courtesy"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}

	account := c.ForProblem(ProblemAccount)
	if len(account) != 1 || account[0].Name != "Account Security Protocol" {
		t.Fatalf("unexpected account policies: %v", account)
	}

	if got := c.ForProblem("weather"); len(got) != 0 {
		t.Fatalf("expected no match for unknown category, got %v", got)
	}
}

func TestForProblemsUnion(t *testing.T) {
	t.Parallel()

	c := NewCatalog()

	got := c.ForProblems([]string{" damaged ", "account"})
	names := make([]string, 0, len(got))
	for _, p := range got {
		names = append(names, p.Name)
	}

	// Catalog order, duplicates collapsed.
	want := []string{"Damaged Item Policy", "Premium Customer Service", "First-Time Customer Courtesy", "Account Security Protocol"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}

	if got := c.ForProblems(nil); len(got) != 0 {
		t.Fatalf("expected empty union for no problems, got %v", got)
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	c := NewCatalog()
	p, _ := c.Get("Account Security Protocol")

	out := Format("Candidate Policies", []Policy{p})
	for _, want := range []string{
		"# Candidate Policies\n\n",
		"## Account Security Protocol\n",
		"Description: For account-related issues",
		"When to use: When handling account access",
		"Applicable problems: account\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in:\n%s", want, out)
		}
	}
}

func TestIsKnownCategory(t *testing.T) {
	t.Parallel()

	for _, cat := range Categories {
		if !IsKnownCategory(cat) {
			t.Fatalf("category %q not recognized", cat)
		}
	}
	for _, tag := range []string{"", "weather", "Damaged", "refunds"} {
		if IsKnownCategory(tag) {
			t.Fatalf("tag %q unexpectedly recognized", tag)
		}
	}
}
