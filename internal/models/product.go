// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Product is derived on every read from a (category, storage object) pair.
// It is never persisted, so there is no update path for its fields.
type Product struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	CategoryLabel string `json:"categoryLabel"`
	Image         string `json:"image"`
}

// Catalog is the assembled product listing together with the categories it
// was built from. It is the unit stored in the catalog cache.
type Catalog struct {
	Products   []Product  `json:"products"`
	Categories []Category `json:"categories"`
}
