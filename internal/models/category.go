// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the catalog entities shared across the storefront.
package models

// Category is a product group backed by one storage folder named after its ID.
// Categories are persisted as entries of the categories metadata document.
type Category struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// DefaultCategories is served whenever the categories document is missing or
// unreadable, so the catalog works before the first admin configuration.
func DefaultCategories() []Category {
	return []Category{
		{ID: "army", Label: "Army & Tactical"},
		{ID: "police", Label: "Police & Security"},
		{ID: "bar-mat", Label: "Bar Mats"},
		{ID: "coasters", Label: "Coasters"},
		{ID: "flash-memory", Label: "Flash Memory"},
		{ID: "fridge-magnet", Label: "Fridge Magnets"},
		{ID: "label", Label: "Labels & Tags"},
		{ID: "lighter", Label: "Lighter Covers"},
		{ID: "mobile-holder", Label: "Mobile Holders"},
		{ID: "pen-accessories", Label: "Pen Accessories"},
		{ID: "keychains", Label: "Keychains"},
	}
}

// FindCategory returns the index of the category with the given ID, or -1.
func FindCategory(categories []Category, id string) int {
	for i, c := range categories {
		if c.ID == id {
			return i
		}
	}
	return -1
}
