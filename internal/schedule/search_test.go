package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"velamar/internal/models"
)

func testRoster() ([]models.Professional, []models.Skill) {
	skills := []models.Skill{
		{ID: "s1", Name: "Diving", CostPerHour: 25},
		{ID: "s2", Name: "Sailing", CostPerHour: 20},
	}
	roster := []models.Professional{
		{ID: "p1", Name: "Ana", Priority: 2, Active: true, Skills: []models.SkillRating{{SkillID: "s1", Rating: 5}}},
		{ID: "p2", Name: "Bruno", Priority: 5, Active: true, Skills: []models.SkillRating{{SkillID: "s1", Rating: 1}}},
		{ID: "p3", Name: "Carla", Priority: 1, Active: true, Skills: []models.SkillRating{{SkillID: "s2", Rating: 4}}},
		{ID: "p4", Name: "Diogo", Priority: 9, Active: false, Skills: []models.SkillRating{{SkillID: "s1", Rating: 5}}},
	}
	return roster, skills
}

func TestRankStaff_SkillScore(t *testing.T) {
	roster, skills := testRoster()

	got := RankStaff("diving", roster, skills, nil)
	require.Len(t, got, 2)

	// Ana: priority 2 + rating 5*2 = 12; Bruno: 5 + 1*2 = 7.
	assert.Equal(t, "Ana (Diving)", got[0].Label)
	assert.Equal(t, 12, got[0].Score)
	assert.Equal(t, "Bruno (Diving)", got[1].Label)
	assert.Equal(t, 7, got[1].Score)
}

func TestRankStaff_TieBreaks(t *testing.T) {
	skills := []models.Skill{{ID: "s1", Name: "Diving"}}
	roster := []models.Professional{
		// Equal scores: 4 + 3*2 = 10 and 2 + 4*2 = 10. Higher rating wins.
		{ID: "p1", Name: "Zara", Priority: 4, Active: true, Skills: []models.SkillRating{{SkillID: "s1", Rating: 3}}},
		{ID: "p2", Name: "Alba", Priority: 2, Active: true, Skills: []models.SkillRating{{SkillID: "s1", Rating: 4}}},
		// Same score and rating as Zara: alphabetical label order.
		{ID: "p3", Name: "Mira", Priority: 4, Active: true, Skills: []models.SkillRating{{SkillID: "s1", Rating: 3}}},
	}

	got := RankStaff("diving", roster, skills, nil)
	require.Len(t, got, 3)
	assert.Equal(t, "Alba (Diving)", got[0].Label)
	assert.Equal(t, "Mira (Diving)", got[1].Label)
	assert.Equal(t, "Zara (Diving)", got[2].Label)
}

func TestRankStaff_NameMatch(t *testing.T) {
	roster, skills := testRoster()

	got := RankStaff("ana", roster, skills, nil)
	require.Len(t, got, 1)
	assert.Equal(t, "name", got[0].MatchType)
	assert.Equal(t, "Ana (Diving)", got[0].Label)
	assert.Equal(t, 2, got[0].Score) // name matches score priority only
}

func TestRankStaff_DedupeKeepsHighestScore(t *testing.T) {
	// Query matching both the name and the skill produces one row per
	// label, keeping the skill row's higher score.
	skills := []models.Skill{{ID: "s1", Name: "Dive Master"}}
	roster := []models.Professional{
		{ID: "p1", Name: "Diveira", Priority: 3, Active: true, Skills: []models.SkillRating{{SkillID: "s1", Rating: 4}}},
	}

	got := RankStaff("dive", roster, skills, nil)
	require.Len(t, got, 1)
	assert.Equal(t, "Diveira (Dive Master)", got[0].Label)
	assert.Equal(t, 11, got[0].Score) // 3 + 4*2, not the name score 3
	assert.Equal(t, "skill", got[0].MatchType)
}

func TestRankStaff_Edges(t *testing.T) {
	roster, skills := testRoster()

	t.Run("short query yields nothing", func(t *testing.T) {
		assert.Nil(t, RankStaff("d", roster, skills, nil))
		assert.Nil(t, RankStaff("  ", roster, skills, nil))
	})

	t.Run("inactive staff are excluded", func(t *testing.T) {
		for _, c := range RankStaff("diving", roster, skills, nil) {
			assert.NotEqual(t, "Diogo", c.Professional.Name)
		}
	})

	t.Run("availability is annotated but does not reorder", func(t *testing.T) {
		check := func(name string, kind models.ResourceKind) Availability {
			if name == "Ana" {
				return Availability{Status: Unavailable, Reason: "booked"}
			}
			return Availability{Status: Available}
		}
		got := RankStaff("diving", roster, skills, check)
		require.Len(t, got, 2)
		assert.Equal(t, "Ana (Diving)", got[0].Label)
		assert.Equal(t, Unavailable, got[0].Availability.Status)
		assert.Equal(t, Available, got[1].Availability.Status)
	})
}
