package identity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInstitution(t *testing.T) {
	t.Run("creates institution successfully", func(t *testing.T) {
		inst, err := NewInstitution("  Quran Academy ", "info@quranacademy.com")

		require.NoError(t, err)
		assert.Equal(t, "Quran Academy", inst.Name)
		assert.Equal(t, "info@quranacademy.com", inst.ContactEmail)
		assert.Empty(t, inst.Subdomain)
		assert.Equal(t, 1, inst.GetVersion())
		require.Len(t, inst.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeInstitutionRegistered, inst.GetDomainEvents()[0].EventType())
		assert.Equal(t, inst.ID, inst.GetDomainEvents()[0].InstitutionID())
	})

	t.Run("fails with short name", func(t *testing.T) {
		inst, err := NewInstitution("Q", "info@example.com")

		assert.Error(t, err)
		assert.Nil(t, inst)
		assert.Contains(t, err.Error(), "at least 2 characters")
	})

	t.Run("fails with long name", func(t *testing.T) {
		_, err := NewInstitution(strings.Repeat("a", 101), "info@example.com")
		assert.Error(t, err)
	})

	t.Run("fails with invalid email", func(t *testing.T) {
		inst, err := NewInstitution("Academy", "not-an-email")

		assert.Error(t, err)
		assert.Nil(t, inst)
		assert.Contains(t, err.Error(), "Invalid email")
	})
}

func TestInstitution_SetSubdomain(t *testing.T) {
	inst, err := NewInstitution("Academy", "info@example.com")
	require.NoError(t, err)
	inst.MarkPersisted()

	t.Run("accepts valid subdomain", func(t *testing.T) {
		require.NoError(t, inst.SetSubdomain("quran123"))
		assert.Equal(t, "quran123", inst.Subdomain)
		assert.True(t, inst.HasSubdomain())
		assert.Equal(t, 2, inst.GetVersion())
	})

	t.Run("rejects reserved subdomain", func(t *testing.T) {
		err := inst.SetSubdomain("admin")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reserved")
		assert.Equal(t, "quran123", inst.Subdomain)
	})

	t.Run("empty subdomain clears it", func(t *testing.T) {
		require.NoError(t, inst.SetSubdomain(""))
		assert.False(t, inst.HasSubdomain())
	})
}

func TestValidateSubdomain(t *testing.T) {
	tests := []struct {
		name      string
		subdomain string
		wantErr   string
	}{
		{"valid", "academy1", ""},
		{"too short", "ab", "between 3 and 30"},
		{"too long", strings.Repeat("a", 31), "between 3 and 30"},
		{"uppercase", "Academy", "lowercase letters and numbers"},
		{"hyphen", "my-school", "lowercase letters and numbers"},
		{"reserved www", "www", "reserved"},
		{"reserved dashboard", "dashboard", "reserved"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSubdomain(tt.subdomain)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestInstitution_Updates(t *testing.T) {
	inst, err := NewInstitution("Academy", "info@example.com")
	require.NoError(t, err)

	require.NoError(t, inst.Rename("New Academy"))
	assert.Equal(t, "New Academy", inst.Name)

	require.NoError(t, inst.SetContactEmail("hello@example.com"))
	assert.Equal(t, "hello@example.com", inst.ContactEmail)

	require.NoError(t, inst.SetLogoURL("https://cdn.example.com/logo.png"))
	assert.Equal(t, "https://cdn.example.com/logo.png", inst.LogoURL)

	assert.Error(t, inst.SetLogoURL(strings.Repeat("x", 501)))
	assert.Equal(t, 1, inst.GetVersion(), "unsaved institutions stay at version 1")
}

func TestInstitution_VersionBumpsOncePerSave(t *testing.T) {
	inst, err := NewInstitution("Academy", "info@example.com")
	require.NoError(t, err)
	inst.MarkPersisted()

	require.NoError(t, inst.Rename("New Academy"))
	require.NoError(t, inst.SetContactEmail("hello@example.com"))
	assert.Equal(t, 2, inst.GetVersion())
	assert.Equal(t, 1, inst.PersistedVersion())

	inst.MarkPersisted()
	require.NoError(t, inst.SetSubdomain("academy"))
	assert.Equal(t, 3, inst.GetVersion())
}
