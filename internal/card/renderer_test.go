package card

import (
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xela07ax/incentive-bridge/internal/domain"
)

func sampleRecord() domain.Record {
	return domain.Record{
		ID: "rec123",
		Fields: map[string]any{
			domain.FieldDate:        "2024-01-01",
			domain.FieldAgentName:   "J. Doe",
			domain.FieldIncentive:   "Bonus",
			domain.FieldSubmittedBy: "Mgr",
		},
	}
}

func embedValue(t *testing.T, embed *discordgo.MessageEmbed, name string) string {
	t.Helper()
	for _, f := range embed.Fields {
		if f.Name == name {
			return f.Value
		}
	}
	t.Fatalf("embed field %q not found", name)
	return ""
}

func TestRenderFields(t *testing.T) {
	embed, components := Render(sampleRecord())

	assert.Equal(t, "2024-01-01", embedValue(t, embed, domain.FieldDate))
	assert.Equal(t, "J. Doe", embedValue(t, embed, domain.FieldAgentName))
	assert.Equal(t, "Mgr", embedValue(t, embed, domain.FieldSubmittedBy))
	assert.Equal(t, "Bonus", embedValue(t, embed, domain.FieldIncentive))

	require.Len(t, components, 1)
	row, ok := components[0].(discordgo.ActionsRow)
	require.True(t, ok)
	require.Len(t, row.Components, 2)

	approve := row.Components[0].(discordgo.Button)
	deny := row.Components[1].(discordgo.Button)

	assert.Equal(t, "Approve", approve.Label)
	assert.Equal(t, discordgo.SuccessButton, approve.Style)
	assert.Equal(t, "inc_approve_rec123", approve.CustomID)

	assert.Equal(t, "Deny", deny.Label)
	assert.Equal(t, discordgo.SecondaryButton, deny.Style)
	assert.Equal(t, "inc_deny_rec123", deny.CustomID)
}

func TestRenderMissingFieldsUsePlaceholder(t *testing.T) {
	embed, _ := Render(domain.Record{ID: "rec456", Fields: map[string]any{
		domain.FieldAgentName: "",
	}})

	assert.Equal(t, placeholder, embedValue(t, embed, domain.FieldDate))
	assert.Equal(t, placeholder, embedValue(t, embed, domain.FieldAgentName))
	assert.Equal(t, placeholder, embedValue(t, embed, domain.FieldSubmittedBy))
	assert.Equal(t, placeholder, embedValue(t, embed, domain.FieldIncentive))
}

func TestRenderTruncatesLongIncentive(t *testing.T) {
	rec := sampleRecord()
	rec.Fields[domain.FieldIncentive] = strings.Repeat("a", incentiveLimit+500)

	embed, _ := Render(rec)
	assert.Len(t, embedValue(t, embed, domain.FieldIncentive), incentiveLimit)
}

func TestRenderKeepsShortIncentive(t *testing.T) {
	exact := strings.Repeat("b", incentiveLimit)
	rec := sampleRecord()
	rec.Fields[domain.FieldIncentive] = exact

	embed, _ := Render(rec)
	assert.Equal(t, exact, embedValue(t, embed, domain.FieldIncentive))
}
