package client

import (
	"github.com/bwmarrin/discordgo"
)

// DiscordAnnouncer mirrors heat-finished notifications into a Discord
// channel. Messages go over the REST API, no gateway connection is
// opened.
type DiscordAnnouncer struct {
	Session   *discordgo.Session
	ChannelId string
}

func NewDiscordAnnouncer(token string, channelId string) (*DiscordAnnouncer, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	return &DiscordAnnouncer{Session: session, ChannelId: channelId}, nil
}

func (d *DiscordAnnouncer) Announce(message string) error {
	_, err := d.Session.ChannelMessageSend(d.ChannelId, message)
	return err
}
