// Package notify announces jackpot wins in a Discord channel.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/osse101/RewardEngine_Go/internal/event"
)

// EmbedSender is the slice of *discordgo.Session the announcer needs
type EmbedSender interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Announcer posts an embed for every jackpot win
type Announcer struct {
	sender    EmbedSender
	channelID string
	printer   *message.Printer
}

// NewAnnouncer creates an Announcer posting to channelID
func NewAnnouncer(sender EmbedSender, channelID string) *Announcer {
	return &Announcer{
		sender:    sender,
		channelID: channelID,
		printer:   message.NewPrinter(language.English),
	}
}

// NewSession opens a bot session for the announcer
func NewSession(token string) (*discordgo.Session, error) {
	s, err := discordgo.New(BotTokenPrefix + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	return s, nil
}

// Register subscribes the announcer to jackpot wins
func (a *Announcer) Register(bus event.Bus) {
	bus.Subscribe(event.JackpotWon, a.handleJackpotWon)
	slog.Info(LogMsgAnnouncerRegistered, "channel_id", a.channelID)
}

func (a *Announcer) handleJackpotWon(_ context.Context, evt event.Event) error {
	p, err := event.DecodePayload[event.JackpotPayloadV1](evt.Payload)
	if err != nil {
		slog.Warn(LogMsgInvalidPayload, "error", err)
		return nil
	}

	if _, err := a.sender.ChannelMessageSendEmbed(a.channelID, a.embed(p)); err != nil {
		slog.Error(LogMsgAnnounceFailed, "error", err, "wheel_id", p.Pool.WheelID)
		return err
	}
	return nil
}

func (a *Announcer) embed(p event.JackpotPayloadV1) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Jackpot!",
		Description: a.printer.Sprintf("A player just won **%d coins** on the %s wheel!", p.Amount, p.Pool.WheelID),
		Color:       ColorJackpot,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Wheel",
				Value:  p.Pool.WheelID,
				Inline: true,
			},
			{
				Name:   "New Pool",
				Value:  a.printer.Sprintf("%d", p.Pool.CurrentAmount),
				Inline: true,
			},
		},
		Timestamp: time.Unix(p.Timestamp, 0).UTC().Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: FooterText,
		},
	}
}
