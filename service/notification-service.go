package service

import (
	"battle/app_error"
	"battle/client"
	"battle/config"
	"battle/metrics"
	"battle/repository"
	"fmt"
	"log"

	"gorm.io/gorm"
)

// NotificationService broadcasts heat-finished messages to every judge
// with a bound Telegram id, optionally mirroring them into a Discord
// announce channel. Credentials are fixed at construction; a missing
// credential puts the channel into a disabled state rather than being
// an error.
type NotificationService struct {
	userRepository   *repository.UserRepository
	telegramClient   *client.TelegramClient
	discordAnnouncer *client.DiscordAnnouncer
	adminLinkBase    string
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	cfg := config.Env()
	service := &NotificationService{
		userRepository: repository.NewUserRepository(db),
		adminLinkBase:  cfg.AdminLinkBase,
	}
	if cfg.TelegramBotToken != "" {
		service.telegramClient = client.NewTelegramClient(cfg.TelegramBotToken)
	}
	if cfg.DiscordBotToken != "" && cfg.DiscordAnnounceChannel != "" {
		announcer, err := client.NewDiscordAnnouncer(cfg.DiscordBotToken, cfg.DiscordAnnounceChannel)
		if err != nil {
			log.Printf("discord announcer disabled: %v", err)
		} else {
			service.discordAnnouncer = announcer
		}
	}
	return service
}

// NotifyHeatFinished delivers one message per recipient, sequentially.
// The first failed delivery aborts the remaining batch.
func (s *NotificationService) NotifyHeatFinished(heat *repository.Heat, round *repository.Round, category *repository.Category, event *repository.Event) error {
	message := s.buildHeatFinishedMessage(heat, category, event)

	if s.discordAnnouncer != nil {
		if err := s.discordAnnouncer.Announce(message); err != nil {
			log.Printf("discord announce for heat %d failed: %v", heat.Id, err)
		}
	}

	if s.telegramClient == nil {
		return nil
	}
	recipients, err := s.userRepository.GetNotificationRecipients()
	if err != nil {
		return err
	}
	for _, recipient := range recipients {
		if err := s.telegramClient.SendMessage(*recipient.TelegramId, message); err != nil {
			metrics.NotificationsFailedCounter.Inc()
			return app_error.ExternalService(err, fmt.Sprintf("telegram delivery to user %d failed", recipient.Id))
		}
		metrics.NotificationsSentCounter.Inc()
	}
	return nil
}

func (s *NotificationService) buildHeatFinishedMessage(heat *repository.Heat, category *repository.Category, event *repository.Event) string {
	message := fmt.Sprintf("Heat #%d finished. Category: %s. Competition: %s.", heat.HeatNumber, category.Name, event.Title)
	if s.adminLinkBase != "" {
		message = fmt.Sprintf("%s\nDetails: %s", message, s.adminLinkBase)
	}
	return message
}
