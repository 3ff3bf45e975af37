// internal/model/field.go
package model

// FieldKey names a campaign attribute that can be shown to or hidden from a
// viewer. The catalog is fixed.
type FieldKey string

const (
	FieldName          FieldKey = "name"
	FieldDelivery      FieldKey = "delivery"
	FieldStatus        FieldKey = "status"
	FieldActions       FieldKey = "actions"
	FieldResults       FieldKey = "results"
	FieldCostPerResult FieldKey = "costPerResult"
	FieldBudget        FieldKey = "budget"
	FieldAmountSpent   FieldKey = "amountSpent"
	FieldImpressions   FieldKey = "impressions"
	FieldReach         FieldKey = "reach"
	FieldEndDate       FieldKey = "endDate"
	FieldActive        FieldKey = "active"
)

type FieldDescriptor struct {
	Key   FieldKey `json:"key"`
	Label string   `json:"label"`
}

var fieldCatalog = []FieldDescriptor{
	{Key: FieldName, Label: "Campaign Name"},
	{Key: FieldDelivery, Label: "Delivery"},
	{Key: FieldStatus, Label: "Status"},
	{Key: FieldActions, Label: "Actions"},
	{Key: FieldResults, Label: "Results"},
	{Key: FieldCostPerResult, Label: "Cost per Result"},
	{Key: FieldBudget, Label: "Budget"},
	{Key: FieldAmountSpent, Label: "Amount Spent"},
	{Key: FieldImpressions, Label: "Impressions"},
	{Key: FieldReach, Label: "Reach"},
	{Key: FieldEndDate, Label: "End Date"},
	{Key: FieldActive, Label: "Active Status"},
}

// FieldCatalog returns a copy of the catalog in display order.
func FieldCatalog() []FieldDescriptor {
	out := make([]FieldDescriptor, len(fieldCatalog))
	copy(out, fieldCatalog)
	return out
}

// DefaultVisibleFields returns every catalog key in display order.
func DefaultVisibleFields() []FieldKey {
	keys := make([]FieldKey, len(fieldCatalog))
	for i, f := range fieldCatalog {
		keys[i] = f.Key
	}
	return keys
}

func (k FieldKey) Valid() bool {
	for _, f := range fieldCatalog {
		if f.Key == k {
			return true
		}
	}
	return false
}
