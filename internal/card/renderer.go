package card

import (
	"github.com/bwmarrin/discordgo"

	"github.com/xela07ax/incentive-bridge/internal/domain"
)

const (
	// Лимит платформы на размер сообщения: длинные описания режем.
	incentiveLimit = 1200

	// Плейсхолдер для пустых/отсутствующих полей.
	placeholder = "—"
)

// Render — чистая функция: запись -> embed + кнопки. Состояния не трогает,
// id записи уезжает в CustomID кнопок через общий кодек ControlID.
func Render(rec domain.Record) (*discordgo.MessageEmbed, []discordgo.MessageComponent) {
	embed := &discordgo.MessageEmbed{
		Title: "💰 New Incentive Approval Request",
		Color: 0xF5A623,
		Fields: []*discordgo.MessageEmbedField{
			{Name: domain.FieldDate, Value: display(rec, domain.FieldDate), Inline: true},
			{Name: domain.FieldAgentName, Value: display(rec, domain.FieldAgentName), Inline: true},
			{Name: domain.FieldSubmittedBy, Value: display(rec, domain.FieldSubmittedBy), Inline: true},
			{Name: domain.FieldIncentive, Value: truncate(display(rec, domain.FieldIncentive))},
		},
	}

	components := []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Approve",
					Style:    discordgo.SuccessButton,
					CustomID: domain.ControlID{Action: domain.ActionApprove, RecordID: rec.ID}.String(),
				},
				discordgo.Button{
					Label:    "Deny",
					Style:    discordgo.SecondaryButton,
					CustomID: domain.ControlID{Action: domain.ActionDeny, RecordID: rec.ID}.String(),
				},
			},
		},
	}

	return embed, components
}

func display(rec domain.Record, field string) string {
	if v := rec.Display(field); v != "" {
		return v
	}
	return placeholder
}

func truncate(s string) string {
	runes := []rune(s)
	if len(runes) <= incentiveLimit {
		return s
	}
	return string(runes[:incentiveLimit])
}
