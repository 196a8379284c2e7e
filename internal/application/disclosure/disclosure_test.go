package disclosure

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/cv-studio/internal/application/compose"
	"github.com/khoahotran/cv-studio/internal/domain/document"
	"github.com/khoahotran/cv-studio/internal/domain/profile"
	"github.com/khoahotran/cv-studio/internal/domain/share"
)

func strp(s string) *string { return &s }

func fullProfile() *profile.Profile {
	return &profile.Profile{
		OwnerID:     uuid.New(),
		FirstName:   "Ada",
		LastName:    "Lovelace",
		Headline:    "Analyst",
		Summary:     "Writes programs for engines.",
		Email:       "ada@example.com",
		Phone:       "+44 20 0000 0000",
		Location:    "London",
		LinkedInURL: "https://linkedin.com/in/ada",
		GitHubURL:   "https://github.com/ada",
		PhotoURL:    strp("https://img.example.com/ada.png"),
		Languages:   []profile.LanguageSkill{{Name: "English", Level: "native"}},
		Motivation:  profile.MotivationVision{Vision: "machines that compose music"},
	}
}

func resolvedDoc() *compose.ResolvedDocument {
	layout, _ := document.DefaultLayout(document.ModeTwoColumn)
	return &compose.ResolvedDocument{
		DocumentID: uuid.New(),
		Title:      "Engine CV",
		Mode:       document.ModeTwoColumn,
		Pages:      layout.Pages,
		Content: compose.Content{
			Experience: []compose.Item[profile.WorkExperience]{{
				Entity:      profile.WorkExperience{Company: "Analytical Engines", Position: "Analyst", StartDate: profile.NewDate(1842, 1, 1)},
				IsSelected:  true,
				Description: strp("Notes on the engine"),
				Details:     []string{"Algorithm for Bernoulli numbers"},
			}},
			References: []compose.Item[profile.Reference]{{
				Entity:     profile.Reference{Name: "Charles Babbage", Email: "charles@example.com", Phone: "123"},
				IsSelected: true,
			}},
		},
	}
}

// exposedPaths lists every JSON path that carries a non-empty value.
func exposedPaths(t *testing.T, v any) map[string]bool {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	var tree any
	require.NoError(t, json.Unmarshal(raw, &tree))

	out := make(map[string]bool)
	var walk func(prefix string, n any)
	walk = func(prefix string, n any) {
		switch x := n.(type) {
		case map[string]any:
			for k, c := range x {
				walk(prefix+"."+k, c)
			}
		case []any:
			for i, c := range x {
				walk(fmt.Sprintf("%s[%d]", prefix, i), c)
			}
		case nil:
		case string:
			if x != "" {
				out[prefix] = true
			}
		case bool:
			if x {
				out[prefix] = true
			}
		default:
			out[prefix] = true
		}
	}
	walk("", tree)
	return out
}

func TestRedact_IsMonotonic(t *testing.T) {
	doc, p := resolvedDoc(), fullProfile()

	none := exposedPaths(t, Redact(doc, p, share.PrivacyNone))
	personal := exposedPaths(t, Redact(doc, p, share.PrivacyPersonal))
	full := exposedPaths(t, Redact(doc, p, share.PrivacyFull))

	// The level marker and the private flag describe the projection itself.
	for _, m := range []map[string]bool{none, personal, full} {
		delete(m, ".privacy_level")
		delete(m, ".is_private")
	}
	// Display names differ in value, not in presence.
	for path := range full {
		assert.True(t, personal[path], "exposed under full but not personal: %s", path)
	}
	for path := range personal {
		assert.True(t, none[path], "exposed under personal but not none: %s", path)
	}
}

func TestRedact_None(t *testing.T) {
	out := Redact(resolvedDoc(), fullProfile(), share.PrivacyNone)

	assert.Equal(t, "Ada Lovelace", out.DisplayName)
	assert.False(t, out.IsPrivate)
	assert.Equal(t, "London", out.Location)
	assert.Equal(t, "https://img.example.com/ada.png", out.PhotoURL)
	require.NotNil(t, out.Contact)
	assert.Equal(t, "ada@example.com", out.Contact.Email)
	assert.Equal(t, "https://github.com/ada", out.Contact.GitHubURL)
	assert.Equal(t, "charles@example.com", out.Sections.References[0].Email)
	assert.Equal(t, []string{"Algorithm for Bernoulli numbers"}, out.Sections.Experience[0].Bullets)
}

func TestRedact_Personal(t *testing.T) {
	out := Redact(resolvedDoc(), fullProfile(), share.PrivacyPersonal)

	assert.Equal(t, "Ada Lovelace", out.DisplayName)
	assert.Equal(t, "London", out.Location)
	assert.Equal(t, "Writes programs for engines.", out.Summary)
	assert.Nil(t, out.Contact)
	assert.Empty(t, out.PhotoURL)
	assert.Empty(t, out.Sections.References[0].Email)
	assert.Empty(t, out.Sections.References[0].Phone)
	assert.Equal(t, "Charles Babbage", out.Sections.References[0].Name)
}

func TestRedact_Full(t *testing.T) {
	out := Redact(resolvedDoc(), fullProfile(), share.PrivacyFull)

	assert.Equal(t, AnonymousName, out.DisplayName)
	assert.True(t, out.IsPrivate)
	assert.Empty(t, out.Location)
	assert.Nil(t, out.Contact)
	assert.Empty(t, out.PhotoURL)
	assert.Empty(t, out.Summary)
	assert.Equal(t, "Analyst", out.Headline)
	assert.Equal(t, "Analytical Engines", out.Sections.Experience[0].Company)
}

func TestRedact_UnknownLevelIsFullyPrivate(t *testing.T) {
	out := Redact(resolvedDoc(), fullProfile(), share.PrivacyLevel("public"))

	assert.Equal(t, share.PrivacyFull, out.PrivacyLevel)
	assert.True(t, out.IsPrivate)
	assert.Equal(t, AnonymousName, out.DisplayName)
	assert.Nil(t, out.Contact)
	assert.Empty(t, out.Summary)
}

func TestRedact_NilProfile(t *testing.T) {
	out := Redact(resolvedDoc(), nil, share.PrivacyNone)
	assert.Equal(t, AnonymousName, out.DisplayName)
	assert.Nil(t, out.Contact)
}

func TestRedact_NeverExposesMotivationOrOwner(t *testing.T) {
	raw, err := json.Marshal(Redact(resolvedDoc(), fullProfile(), share.PrivacyNone))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "machines that compose music")
	assert.NotContains(t, string(raw), "owner_id")
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name  string
		level share.PrivacyLevel
		p     *profile.Profile
		want  string
	}{
		{"full hides complete name", share.PrivacyFull, &profile.Profile{FirstName: "Ada", LastName: "Lovelace"}, AnonymousName},
		{"personal with both parts", share.PrivacyPersonal, &profile.Profile{FirstName: "Ada", LastName: "Lovelace"}, "Ada Lovelace"},
		{"personal with first name only", share.PrivacyPersonal, &profile.Profile{FirstName: " Ada "}, "Ada"},
		{"personal with last name only", share.PrivacyPersonal, &profile.Profile{LastName: "Lovelace"}, "Lovelace"},
		{"personal with empty names", share.PrivacyPersonal, &profile.Profile{FirstName: "", LastName: ""}, AnonymousName},
		{"personal with blank names", share.PrivacyPersonal, &profile.Profile{FirstName: "  ", LastName: "\t"}, AnonymousName},
		{"none with name", share.PrivacyNone, &profile.Profile{FirstName: "Ada", LastName: "Lovelace"}, "Ada Lovelace"},
		{"unknown level", share.PrivacyLevel(""), &profile.Profile{FirstName: "Ada"}, AnonymousName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayName(tt.level, tt.p))
		})
	}
}
