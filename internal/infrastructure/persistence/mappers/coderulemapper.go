package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"sequor/internal/domain/coderule"
	"sequor/internal/infrastructure/persistence/models"
)

// CodeRuleMapper provides methods for converting between domain and model
type CodeRuleMapper interface {
	ToDomain(model *models.CodeRuleModel) *coderule.CodeRule
	ToModel(domain *coderule.CodeRule) (*models.CodeRuleModel, error)
	ToDomainList(modelList []*models.CodeRuleModel) []*coderule.CodeRule
}

type codeRuleMapper struct{}

// NewCodeRuleMapper creates a new CodeRuleMapper
func NewCodeRuleMapper() CodeRuleMapper {
	return &codeRuleMapper{}
}

// ToDomain converts a CodeRuleModel to a CodeRule domain entity
func (m *codeRuleMapper) ToDomain(model *models.CodeRuleModel) *coderule.CodeRule {
	if model == nil {
		return nil
	}

	var metaData map[string]interface{}
	if len(model.MetaData) > 0 {
		// Malformed metadata is dropped rather than failing the read; it is
		// display-only and never affects code generation.
		_ = json.Unmarshal(model.MetaData, &metaData)
	}

	return coderule.ReconstructCodeRule(
		model.ID,
		model.SID,
		model.EntityCode,
		model.EntityName,
		model.EntityNameEN,
		model.Description,
		model.Prefix,
		model.Separator,
		model.DigitLength,
		model.UseDate,
		coderule.DateFormat(model.DateFormat),
		coderule.ResetCycle(model.ResetCycle),
		model.CurrentNumber,
		model.LastPeriodKey,
		model.IsActive,
		model.IsDeleted,
		metaData,
		model.CreatedAt,
		model.UpdatedAt,
	)
}

// ToModel converts a CodeRule domain entity to a CodeRuleModel
func (m *codeRuleMapper) ToModel(domain *coderule.CodeRule) (*models.CodeRuleModel, error) {
	if domain == nil {
		return nil, nil
	}

	var metaJSON datatypes.JSON
	if meta := domain.MetaData(); len(meta) > 0 {
		data, err := json.Marshal(meta)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal meta data: %w", err)
		}
		metaJSON = data
	}

	return &models.CodeRuleModel{
		ID:            domain.ID(),
		SID:           domain.SID(),
		EntityCode:    domain.EntityCode(),
		EntityName:    domain.EntityName(),
		EntityNameEN:  domain.EntityNameEN(),
		Description:   domain.Description(),
		Prefix:        domain.Prefix(),
		Separator:     domain.Separator(),
		DigitLength:   domain.DigitLength(),
		UseDate:       domain.UseDate(),
		DateFormat:    string(domain.DateFormat()),
		ResetCycle:    string(domain.ResetCycle()),
		CurrentNumber: domain.CurrentNumber(),
		LastPeriodKey: domain.LastPeriodKey(),
		IsActive:      domain.IsActive(),
		IsDeleted:     domain.IsDeleted(),
		MetaData:      metaJSON,
		CreatedAt:     domain.CreatedAt(),
		UpdatedAt:     domain.UpdatedAt(),
	}, nil
}

// ToDomainList converts a list of CodeRuleModel to domain entities
func (m *codeRuleMapper) ToDomainList(modelList []*models.CodeRuleModel) []*coderule.CodeRule {
	if modelList == nil {
		return nil
	}

	domains := make([]*coderule.CodeRule, 0, len(modelList))
	for _, model := range modelList {
		if domain := m.ToDomain(model); domain != nil {
			domains = append(domains, domain)
		}
	}

	return domains
}
