// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "sort"

// CarouselSlide is one homepage hero slide with English and Arabic copy.
type CarouselSlide struct {
	ID            string `json:"id"`
	Image         string `json:"image"`
	TagEN         string `json:"tag_en"`
	TagAR         string `json:"tag_ar"`
	TitleEN       string `json:"title_en"`
	TitleAR       string `json:"title_ar"`
	DescriptionEN string `json:"description_en"`
	DescriptionAR string `json:"description_ar"`
	Order         int    `json:"order"`
}

// SlideInput carries a partial slide from the admin form. Nil fields were not
// submitted and keep their stored value when merged into an existing slide.
type SlideInput struct {
	ID            *string `json:"id"`
	Image         *string `json:"image" validate:"omitempty,max=2048"`
	TagEN         *string `json:"tag_en" validate:"omitempty,max=120"`
	TagAR         *string `json:"tag_ar" validate:"omitempty,max=120"`
	TitleEN       *string `json:"title_en" validate:"omitempty,max=300"`
	TitleAR       *string `json:"title_ar" validate:"omitempty,max=300"`
	DescriptionEN *string `json:"description_en" validate:"omitempty,max=2000"`
	DescriptionAR *string `json:"description_ar" validate:"omitempty,max=2000"`
	Order         *int    `json:"order" validate:"omitempty,min=0"`
}

// Apply merges the submitted fields of in onto s.
func (s *CarouselSlide) Apply(in SlideInput) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&s.Image, in.Image)
	set(&s.TagEN, in.TagEN)
	set(&s.TagAR, in.TagAR)
	set(&s.TitleEN, in.TitleEN)
	set(&s.TitleAR, in.TitleAR)
	set(&s.DescriptionEN, in.DescriptionEN)
	set(&s.DescriptionAR, in.DescriptionAR)
	if in.Order != nil {
		s.Order = *in.Order
	}
}

// SortSlides orders slides by their Order field, keeping the stored order
// for ties.
func SortSlides(slides []CarouselSlide) {
	sort.SliceStable(slides, func(i, j int) bool { return slides[i].Order < slides[j].Order })
}
