// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package admin

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/apperr"
	"storefront/internal/models"
	"storefront/internal/storage"
)

func TestUpsertCarouselSlideCreates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.UpsertCarouselSlide(ctx, models.SlideInput{
		Image:   str("https://img.test/hero.jpg"),
		TitleEN: str("Custom lanyards"),
		Order:   intPtr(7),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "1767225600000", first.ID)
	assert.Equal(t, 0, first.Order, "new slides go last regardless of the submitted order")

	f.svc.now = func() time.Time { return fixedNow.Add(time.Second) }
	second, err := f.svc.UpsertCarouselSlide(ctx, models.SlideInput{Image: str("https://img.test/2.jpg")}, nil)
	require.NoError(t, err)
	assert.Equal(t, "1767225601000", second.ID)
	assert.Equal(t, 1, second.Order)

	assert.Len(t, f.meta.GetCarouselSlides(ctx), 2)
}

func TestUpsertCarouselSlideUploadsFile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.primeCache()

	file := upload("hero.png")
	slide, err := f.svc.UpsertCarouselSlide(ctx, models.SlideInput{TitleEN: str("Hero")}, &file)
	require.NoError(t, err)

	assert.Equal(t, publicBase+"/carousel/1767225600000-hero.png", slide.Image)
	_, err = f.objects.Stat(ctx, "carousel/1767225600000-hero.png")
	assert.NoError(t, err)
	assert.True(t, f.cached(), "carousel writes leave the product catalog cache alone")
}

func TestUpsertCarouselSlideMerges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.UpsertCarouselSlide(ctx, models.SlideInput{
		Image:   str("https://img.test/hero.jpg"),
		TagEN:   str("New"),
		TagAR:   str("جديد"),
		TitleEN: str("Old title"),
	}, nil)
	require.NoError(t, err)

	merged, err := f.svc.UpsertCarouselSlide(ctx, models.SlideInput{
		ID:      str(created.ID),
		TitleEN: str("New title"),
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, created.ID, merged.ID)
	assert.Equal(t, "New title", merged.TitleEN)
	assert.Equal(t, "New", merged.TagEN, "unspecified fields keep their value")
	assert.Equal(t, "جديد", merged.TagAR)
	assert.Equal(t, "https://img.test/hero.jpg", merged.Image)

	slides := f.meta.GetCarouselSlides(ctx)
	require.Len(t, slides, 1)
	assert.Equal(t, merged, slides[0])
}

func TestUpsertCarouselSlideRequiresImage(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.UpsertCarouselSlide(context.Background(), models.SlideInput{TitleEN: str("No image")}, nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Empty(t, f.meta.GetCarouselSlides(context.Background()))
}

func TestUpsertCarouselSlideValidatesLengths(t *testing.T) {
	f := newFixture(t)
	long := make([]byte, 301)
	for i := range long {
		long[i] = 'x'
	}
	_, err := f.svc.UpsertCarouselSlide(context.Background(), models.SlideInput{
		Image:   str("https://img.test/a.jpg"),
		TitleEN: str(string(long)),
	}, nil)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestReorderCarouselSlides(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i, id := range []string{"a", "b", "c"} {
		f.svc.now = func() time.Time { return fixedNow.Add(time.Duration(i) * time.Millisecond) }
		_, err := f.svc.UpsertCarouselSlide(ctx, models.SlideInput{Image: str("https://img.test/" + id)}, nil)
		require.NoError(t, err)
	}
	slides := f.meta.GetCarouselSlides(ctx)
	submitted := []models.CarouselSlide{slides[2], slides[0], slides[1]}

	_, err := f.svc.ReorderCarouselSlides(ctx, submitted)
	require.NoError(t, err)

	got := f.meta.GetCarouselSlides(ctx)
	require.Len(t, got, 3)
	for i, slide := range got {
		assert.Equal(t, submitted[i].ID, slide.ID)
		assert.Equal(t, i, slide.Order)
	}
}

func TestReorderCarouselSlidesRejectsBadInput(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.ReorderCarouselSlides(context.Background(), []models.CarouselSlide{{ID: "a"}, {ID: "a"}})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.svc.ReorderCarouselSlides(context.Background(), []models.CarouselSlide{{ID: ""}})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestDeleteCarouselSlideRemovesImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	file := upload("hero.png")
	slide, err := f.svc.UpsertCarouselSlide(ctx, models.SlideInput{}, &file)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteCarouselSlide(ctx, slide.ID))

	assert.Empty(t, f.meta.GetCarouselSlides(ctx))
	_, err = f.objects.Stat(ctx, "carousel/1767225600000-hero.png")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDeleteCarouselSlideSkipsForeignImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.put(t, "army/1.jpg")

	foreign, err := f.svc.UpsertCarouselSlide(ctx, models.SlideInput{Image: str("https://images.unsplash.com/photo-1.jpg")}, nil)
	require.NoError(t, err)
	f.svc.now = func() time.Time { return fixedNow.Add(time.Second) }
	product, err := f.svc.UpsertCarouselSlide(ctx, models.SlideInput{Image: str(publicBase + "/army/1.jpg")}, nil)
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteCarouselSlide(ctx, foreign.ID))
	require.NoError(t, f.svc.DeleteCarouselSlide(ctx, product.ID))

	assert.Empty(t, f.meta.GetCarouselSlides(ctx))
	_, err = f.objects.Stat(ctx, "army/1.jpg")
	assert.NoError(t, err, "only carousel images are deleted with their slide")
}

func TestDeleteCarouselSlideNotFound(t *testing.T) {
	f := newFixture(t)
	err := f.svc.DeleteCarouselSlide(context.Background(), "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func intPtr(n int) *int { return &n }
