package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldNames(errs []ValidationError) []string {
	names := make([]string, 0, len(errs))
	for _, e := range errs {
		names = append(names, e.Field)
	}
	return names
}

func TestValidateCreateLeadInputMinimal(t *testing.T) {
	errs := ValidateCreateLeadInput(CreateLeadInput{Name: "Jane Doe", Email: "jane@x.com", Industry: "medical"})
	assert.Empty(t, errs)
}

func TestValidateCreateLeadInputRequiredFields(t *testing.T) {
	errs := ValidateCreateLeadInput(CreateLeadInput{})
	assert.ElementsMatch(t, []string{"name", "email", "industry"}, fieldNames(errs))
}

func TestValidateCreateLeadInputEnums(t *testing.T) {
	errs := ValidateCreateLeadInput(CreateLeadInput{
		Name: "Jane", Email: "jane@x.com", Industry: "crypto", LeadType: "vip",
	})
	assert.Contains(t, fieldNames(errs), "industry")
	assert.Contains(t, fieldNames(errs), "lead_type")
}

func TestValidateCreateLeadInputPackageNeedsTier(t *testing.T) {
	errs := ValidateCreateLeadInput(CreateLeadInput{
		Name: "Jane", Email: "jane@x.com", Industry: "venue", LeadType: "package",
	})
	require.Len(t, errs, 1)
	assert.Equal(t, "selected_tier", errs[0].Field)
}

func TestValidateCreateLeadInputAuditRejectsTier(t *testing.T) {
	errs := ValidateCreateLeadInput(CreateLeadInput{
		Name: "Jane", Email: "jane@x.com", Industry: "venue", SelectedTier: "growth",
	})
	assert.Equal(t, []string{"selected_tier"}, fieldNames(errs))
}

func TestValidateCreateLeadInputOrganicAuditNeedsBusinessSize(t *testing.T) {
	errs := ValidateCreateLeadInput(CreateLeadInput{
		Name: "Jane", Email: "jane@x.com", Industry: "medical", FormType: FormTypeOrganicAudit,
	})
	assert.Equal(t, []string{"business_size"}, fieldNames(errs))
}

func TestNormalizePhone(t *testing.T) {
	e164, err := NormalizePhone("(702) 384-2121")
	require.NoError(t, err)
	assert.Equal(t, "+17023842121", e164)

	_, err = NormalizePhone("12")
	assert.Error(t, err)

	errs := ValidateCreateLeadInput(CreateLeadInput{Name: "Jane", Email: "jane@x.com", Industry: "medical", Phone: "not a phone"})
	assert.Equal(t, []string{"phone"}, fieldNames(errs))
}
