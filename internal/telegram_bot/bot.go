package telegram_bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"toolbay/internal/config"
	"toolbay/internal/models"
	"toolbay/internal/service"
)

// Bot notifies moderators about new submissions and feedback over Telegram,
// and lets them approve or reject tools from inline buttons. All methods are
// nil-receiver safe so the rest of the application runs unchanged when the
// bot is disabled.
type Bot struct {
	api    *tgbotapi.BotAPI
	admins service.AdminService
	chatID int64
	logger *zap.Logger
}

// NewBot creates a new Telegram bot instance. Returns (nil, nil) when the
// moderation bot is disabled in config.
func NewBot(cfg *config.Config, admins service.AdminService, logger *zap.Logger) (*Bot, error) {
	if !cfg.Moderation.Enabled || cfg.Moderation.TelegramBotToken == "" {
		logger.Info("Telegram moderation bot is disabled")
		return nil, nil
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Moderation.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram bot API: %w", err)
	}

	logger.Info("Telegram bot authorized", zap.String("username", botAPI.Self.UserName))

	return &Bot{
		api:    botAPI,
		admins: admins,
		chatID: cfg.Moderation.TelegramChatID,
		logger: logger,
	}, nil
}

// Start begins listening for updates from Telegram.
func (b *Bot) Start(ctx context.Context) error {
	if b == nil {
		return nil // Bot is disabled
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("Telegram bot started, waiting for updates...")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Telegram bot shutting down...")
			b.api.StopReceivingUpdates()
			return nil
		case update := <-updates:
			if update.CallbackQuery != nil {
				b.handleCallbackQuery(update.CallbackQuery)
			}
		}
	}
}

// NotifyNewTool posts a moderation card with approve/reject buttons for a
// freshly submitted tool.
func (b *Bot) NotifyNewTool(tool *models.Tool) {
	if b == nil {
		return
	}

	text := fmt.Sprintf("New tool submitted\n\n%s\n%s\n\n%s", tool.Name, tool.URL, tool.Description)
	msg := tgbotapi.NewMessage(b.chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Approve", "approve:"+tool.ID),
			tgbotapi.NewInlineKeyboardButtonData("Reject", "reject:"+tool.ID),
		),
	)

	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send tool notification", zap.String("tool_id", tool.ID), zap.Error(err))
	}
}

// NotifyFeedback forwards visitor feedback to the moderation chat.
func (b *Bot) NotifyFeedback(feedback *models.Feedback) {
	if b == nil {
		return
	}

	text := fmt.Sprintf("New feedback\n\nSubject: %s\n\n%s", feedback.Subject, feedback.Message)
	if feedback.Email != nil {
		text += "\n\nContact: " + *feedback.Email
	}
	if _, err := b.api.Send(tgbotapi.NewMessage(b.chatID, text)); err != nil {
		b.logger.Error("Failed to send feedback notification", zap.String("feedback_id", feedback.ID), zap.Error(err))
	}
}

// handleCallbackQuery processes approve/reject button presses.
func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	b.logger.Info("Received callback query",
		zap.String("data", query.Data),
		zap.Int64("user_id", query.From.ID),
	)

	// Acknowledge the callback query
	callback := tgbotapi.NewCallback(query.ID, "")
	if _, err := b.api.Request(callback); err != nil {
		b.logger.Error("Failed to send callback response", zap.Error(err))
	}

	// Callback data: "approve:<tool_id>" or "reject:<tool_id>"
	parts := strings.SplitN(query.Data, ":", 2)
	if len(parts) != 2 {
		b.logger.Error("Failed to parse callback data", zap.String("data", query.Data))
		b.reply(query, "Could not process the request")
		return
	}
	action, toolID := parts[0], parts[1]

	switch action {
	case "approve":
		tool, err := b.admins.ApproveTool(toolID)
		if err != nil {
			b.logger.Error("Failed to approve tool", zap.String("tool_id", toolID), zap.Error(err))
			b.reply(query, "Approval failed: "+err.Error())
			return
		}
		b.reply(query, fmt.Sprintf("Approved: %s", tool.Name))
	case "reject":
		if err := b.admins.RejectTool(toolID); err != nil {
			b.logger.Error("Failed to reject tool", zap.String("tool_id", toolID), zap.Error(err))
			b.reply(query, "Rejection failed: "+err.Error())
			return
		}
		b.reply(query, "Rejected")
	default:
		b.reply(query, "Unknown action: "+action)
	}
}

func (b *Bot) reply(query *tgbotapi.CallbackQuery, text string) {
	msg := tgbotapi.NewMessage(query.Message.Chat.ID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send reply", zap.Error(err))
	}
}
