package service

import "toolbay/internal/models"

func toolFixture(id, url string) *models.Tool {
	return &models.Tool{
		ID:          id,
		Name:        "Example Tool",
		Description: "An AI tool for examples",
		URL:         url,
		Pricing:     models.PricingUnknown,
	}
}
