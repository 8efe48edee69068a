package policy

import (
	"sort"
	"strings"
)

// Problem categories form a fixed, closed enumeration.
const (
	ProblemNonDelivery = "non-delivery"
	ProblemDelayed     = "delayed"
	ProblemDamaged     = "damaged"
	ProblemWrongItem   = "wrong-item"
	ProblemQuality     = "quality"
	ProblemFit         = "fit"
	ProblemReturn      = "return"
	ProblemRefund      = "refund"
	ProblemAccount     = "account"
	ProblemWebsite     = "website"
	ProblemGeneral     = "general"
)

// Categories lists every recognized problem category in prompt order.
var Categories = []string{
	ProblemNonDelivery,
	ProblemDelayed,
	ProblemDamaged,
	ProblemWrongItem,
	ProblemQuality,
	ProblemFit,
	ProblemReturn,
	ProblemRefund,
	ProblemAccount,
	ProblemWebsite,
	ProblemGeneral,
}

// Policy is one immutable catalog entry.
type Policy struct {
	Name               string
	Description        string
	WhenToUse          string
	ApplicableProblems []string
}

func (p Policy) appliesTo(problem string) bool {
	for _, ap := range p.ApplicableProblems {
		if ap == problem {
			return true
		}
	}
	return false
}

// Catalog is process-wide read-only configuration, loaded once at start.
type Catalog struct {
	policies map[string]Policy
	order    []string
}

func NewCatalog() *Catalog {
	c := &Catalog{policies: make(map[string]Policy, len(defaultPolicies))}
	for _, p := range defaultPolicies {
		c.policies[p.Name] = p
		c.order = append(c.order, p.Name)
	}
	return c
}

// Get looks up a policy by exact name.
func (c *Catalog) Get(name string) (Policy, bool) {
	p, ok := c.policies[name]
	return p, ok
}

// All returns every policy in catalog order.
func (c *Catalog) All() []Policy {
	out := make([]Policy, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.policies[name])
	}
	return out
}

// ForProblem returns the policies applicable to a single problem category.
func (c *Catalog) ForProblem(problem string) []Policy {
	var out []Policy
	for _, name := range c.order {
		if p := c.policies[name]; p.appliesTo(problem) {
			out = append(out, p)
		}
	}
	return out
}

// ForProblems returns the union of policies applicable to any of the given
// categories, in catalog order. An empty union means no policy matched; the
// caller decides whether to fall back to the full catalog.
func (c *Catalog) ForProblems(problems []string) []Policy {
	seen := make(map[string]struct{}, len(c.order))
	for _, problem := range problems {
		for _, p := range c.ForProblem(strings.TrimSpace(problem)) {
			seen[p.Name] = struct{}{}
		}
	}

	var out []Policy
	for _, name := range c.order {
		if _, ok := seen[name]; ok {
			out = append(out, c.policies[name])
		}
	}
	return out
}

// Format renders policies as markdown for the reasoning oracle.
func Format(title string, policies []Policy) string {
	var b strings.Builder
	b.WriteString("# " + title + "\n\n")
	for _, p := range policies {
		b.WriteString("## " + p.Name + "\n")
		b.WriteString("Description: " + p.Description + "\n")
		b.WriteString("When to use: " + p.WhenToUse + "\n")
		b.WriteString("Applicable problems: " + strings.Join(p.ApplicableProblems, ", ") + "\n\n")
	}
	return b.String()
}

// IsKnownCategory reports whether tag is one of the fixed categories.
func IsKnownCategory(tag string) bool {
	i := sort.SearchStrings(sortedCategories, tag)
	return i < len(sortedCategories) && sortedCategories[i] == tag
}

var sortedCategories = func() []string {
	s := append([]string(nil), Categories...)
	sort.Strings(s)
	return s
}()

var defaultPolicies = []Policy{
	{
		Name:               "Standard Return Policy",
		Description:        "Customers can return any item within 30 days of purchase for a full refund if the item is in its original condition.",
		WhenToUse:          "For general return requests within the 30-day window where the item is unused or in original condition.",
		ApplicableProblems: []string{ProblemReturn, ProblemRefund, ProblemGeneral},
	},
	{
		Name:               "Damaged Item Policy",
		Description:        "If a customer receives a damaged or defective item, they are eligible for an immediate replacement or full refund, including shipping costs.",
		WhenToUse:          "When a customer reports receiving a damaged or defective product, regardless of when the purchase was made.",
		ApplicableProblems: []string{ProblemDamaged, ProblemQuality},
	},
	{
		Name:               "Non-Delivery Resolution",
		Description:        "If a package is marked as delivered but the customer hasn't received it, we'll initiate an investigation and either resend the item or provide a refund within 5 business days.",
		WhenToUse:          "When tracking shows delivered but customer reports non-receipt of package.",
		ApplicableProblems: []string{ProblemNonDelivery},
	},
	{
		Name:               "Delayed Shipment Compensation",
		Description:        "For orders delayed beyond the estimated delivery date by more than 3 business days, customers are eligible for expedited shipping on their next order or a 10% discount.",
		WhenToUse:          "When shipping takes significantly longer than the estimated delivery timeframe.",
		ApplicableProblems: []string{ProblemDelayed},
	},
	{
		Name:               "Wrong Item Resolution",
		Description:        "If a customer receives the wrong item, they can keep the incorrect item and we'll ship the correct one immediately, or they can return the wrong item for a full refund.",
		WhenToUse:          "When a customer receives an item different from what they ordered.",
		ApplicableProblems: []string{ProblemWrongItem},
	},
	{
		Name:               "Size/Fit Adjustment",
		Description:        "Customers can exchange clothing or wearable items for a different size within 45 days, with free return shipping.",
		WhenToUse:          "For clothing or wearable items with size or fit issues.",
		ApplicableProblems: []string{ProblemFit},
	},
	{
		Name:               "Out-of-Stock Compensation",
		Description:        "If an item is out of stock after an order is placed, customers can choose to wait with a 15% discount, select an alternative item, or receive a full refund.",
		WhenToUse:          "When inventory issues prevent fulfillment of an order as placed.",
		ApplicableProblems: []string{ProblemNonDelivery, ProblemDelayed},
	},
	{
		Name:               "Premium Customer Service",
		Description:        "Customers who have spent over $500 in the past year receive priority support, free expedited shipping on replacements, and additional 5% compensation on any issues.",
		WhenToUse:          "For high-value customers with any type of issue. Check customer purchase history.",
		ApplicableProblems: []string{ProblemGeneral, ProblemDamaged, ProblemDelayed, ProblemNonDelivery, ProblemWrongItem, ProblemQuality, ProblemFit},
	},
	{
		Name:               "First-Time Customer Courtesy",
		Description:        "First-time customers receive extra flexibility on return timeframes (extended to 45 days) and a one-time courtesy refund or replacement even if outside normal policy guidelines.",
		WhenToUse:          "For first-time customers experiencing any issues with their order.",
		ApplicableProblems: []string{ProblemGeneral, ProblemDamaged, ProblemDelayed, ProblemNonDelivery, ProblemWrongItem, ProblemQuality, ProblemFit},
	},
	{
		Name:               "Technical Support Policy",
		Description:        "For products requiring technical setup, customers can schedule a free 15-minute consultation with our technical support team.",
		WhenToUse:          "When customers have issues setting up or using electronic or complex products.",
		ApplicableProblems: []string{ProblemQuality, ProblemGeneral},
	},
	{
		Name:               "Account Security Protocol",
		Description:        "For account-related issues, we require verification of identity through multiple factors before making any changes or providing sensitive information.",
		WhenToUse:          "When handling account access, password resets, or personal information updates.",
		ApplicableProblems: []string{ProblemAccount},
	},
	{
		Name:               "Website Functionality Issues",
		Description:        "For reported website issues, we provide immediate workarounds when possible and escalate to the technical team with a 24-hour response commitment.",
		WhenToUse:          "When customers report problems with the website functionality.",
		ApplicableProblems: []string{ProblemWebsite},
	},
}
