package handlers

import (
	"testing"

	"github.com/v-tox/api-yamdb/internal/db"
	"github.com/v-tox/api-yamdb/internal/models"
)

// 无评价的作品 rating 为 nil，有评价的为均值
func TestTitleRatingDerivation(t *testing.T) {
	setupTestDB(t)

	rated := seedTitle(t)
	unrated := models.Title{Name: "Silent One", Year: 2001}
	if err := db.DB.Create(&unrated).Error; err != nil {
		t.Fatalf("seed title: %v", err)
	}

	bob := seedUser(t, "bob")
	alice := seedUser(t, "alice")
	for _, r := range []models.Review{
		{Text: "good", Score: 4, AuthorID: bob.ID, TitleID: rated.ID},
		{Text: "great", Score: 7, AuthorID: alice.ID, TitleID: rated.ID},
	} {
		if err := db.DB.Create(&r).Error; err != nil {
			t.Fatalf("seed review: %v", err)
		}
	}

	rating, err := titleRating(rated.ID)
	if err != nil {
		t.Fatalf("titleRating failed: %v", err)
	}
	if rating == nil || *rating != 5.5 {
		t.Errorf("rating = %v, want 5.5", rating)
	}

	none, err := titleRating(unrated.ID)
	if err != nil {
		t.Fatalf("titleRating failed: %v", err)
	}
	if none != nil {
		t.Errorf("rating = %v, want nil for a title without reviews", *none)
	}

	titles := []models.Title{*rated, unrated}
	if err := fillRatings(titles); err != nil {
		t.Fatalf("fillRatings failed: %v", err)
	}
	if titles[0].Rating == nil || *titles[0].Rating != 5.5 {
		t.Errorf("batch rating = %v, want 5.5", titles[0].Rating)
	}
	if titles[1].Rating != nil {
		t.Errorf("batch rating = %v, want nil", *titles[1].Rating)
	}
}
