package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hrdesk/hrdesk-backend/internal/logger"
	"github.com/hrdesk/hrdesk-backend/internal/types"
)

// DefaultCollectionName is the taxonomy the classify endpoint targets.
const DefaultCollectionName = "HR Issues"

type seedSubcategory struct {
	Name        string
	Description string
}

type seedCategory struct {
	Name          string
	Description   string
	Subcategories []seedSubcategory
}

var defaultTaxonomy = []seedCategory{
	{
		Name: "Payroll",
		Subcategories: []seedSubcategory{
			{Name: "Salary deduction"},
			{Name: "Overtime payment"},
			{Name: "Bonus / incentive"},
			{Name: "Payslip request"},
			{Name: "Tax / BPJS"},
		},
	},
	{
		Name: "Attendance",
		Subcategories: []seedSubcategory{
			{Name: "Missing clock-in/out"},
			{Name: "Leave approval"},
			{Name: "Shift schedule"},
			{Name: "Late attendance"},
			{Name: "Correction request"},
		},
	},
	{
		Name: "Employment",
		Subcategories: []seedSubcategory{
			{Name: "Contract status"},
			{Name: "Promotion / demotion"},
			{Name: "Transfer request"},
			{Name: "Resignation / termination"},
			{Name: "Onboarding process"},
		},
	},
	{
		Name: "Benefits",
		Subcategories: []seedSubcategory{
			{Name: "Medical claim"},
			{Name: "Insurance coverage"},
			{Name: "Annual leave quota"},
			{Name: "Training / course request"},
			{Name: "Company facility"},
		},
	},
	{
		Name:        "System Access",
		Description: "Covers all issues related to accessing and using internal HR systems or apps.",
		Subcategories: []seedSubcategory{
			{Name: "Email account issue", Description: "Problems with email setup, login, or company email credentials."},
			{Name: "HRIS login problem", Description: "User cannot log into GreatDay or HR system, forgot password, or sees login failure."},
			{Name: "Access permission request", Description: "Requesting access to a module, report, or feature not yet available to the user."},
			{Name: "Password reset", Description: "Reset or unlock password for system account."},
			{Name: "System error report", Description: "System shows an error message, crash, or numeric/technical error (e.g. NaN, 500, 404)."},
			{Name: "Application malfunction", Description: "Form or button not functioning correctly without showing explicit error."},
		},
	},
	{
		Name: "General Inquiry",
		Subcategories: []seedSubcategory{
			{Name: "Policy clarification"},
			{Name: "Document request"},
			{Name: "Event participation"},
			{Name: "Internal memo"},
			{Name: "Feedback / suggestion"},
		},
	},
}

// SeedDefaultTaxonomy idempotently creates the "HR Issues" collection
// and its category tree. A run against an already-seeded database is a
// no-op.
func SeedDefaultTaxonomy(ctx context.Context, gormDB *gorm.DB, log *logger.Logger) error {
	seedLog := log.With("service", "Seed")

	var existing types.Collection
	err := gormDB.WithContext(ctx).
		Where("name = ?", DefaultCollectionName).
		First(&existing).Error
	if err == nil {
		seedLog.Info("Default collection already present, skipping seed", "collection_id", existing.ID)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check existing collection: %w", err)
	}

	seedLog.Info("Seeding default taxonomy...", "collection_name", DefaultCollectionName)
	return gormDB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		collection := types.Collection{
			ID:          uuid.New(),
			Name:        DefaultCollectionName,
			Description: "Default HR issue taxonomy",
		}
		if err := tx.Create(&collection).Error; err != nil {
			return fmt.Errorf("create collection: %w", err)
		}

		for catIdx, cat := range defaultTaxonomy {
			parentIdx := catIdx
			parent := types.CollectionCategory{
				ID:           uuid.New(),
				CollectionID: collection.ID,
				Name:         cat.Name,
				Description:  cat.Description,
				OrderIndex:   &parentIdx,
			}
			if err := tx.Create(&parent).Error; err != nil {
				return fmt.Errorf("create category %q: %w", cat.Name, err)
			}
			for subIdx, sub := range cat.Subcategories {
				childIdx := subIdx
				child := types.CollectionCategory{
					ID:           uuid.New(),
					CollectionID: collection.ID,
					Name:         sub.Name,
					Description:  sub.Description,
					ParentID:     &parent.ID,
					OrderIndex:   &childIdx,
				}
				if err := tx.Create(&child).Error; err != nil {
					return fmt.Errorf("create subcategory %q: %w", sub.Name, err)
				}
			}
		}
		return nil
	})
}
