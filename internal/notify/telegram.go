package notify

import (
	"context"
	"fmt"
	"strings"

	"barokah/internal/domain"
	"barokah/internal/events"
	"barokah/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// TelegramNotifier pushes new bookings and status changes to the shop
// managers' Telegram chats so they see work coming in without watching the
// dashboard.
type TelegramNotifier struct {
	bot     *tgbotapi.BotAPI
	chatIDs []int64
	bus     *events.Bus
	store   domain.Store
	logger  zerolog.Logger
	subID   string
}

func NewTelegramNotifier(botToken string, chatIDs []int64, bus *events.Bus, store domain.Store, logger *zerolog.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("telegram init: %w", err)
	}

	log := zerolog.Nop()
	if logger != nil {
		log = logger.With().Str("component", "telegram-notify").Logger()
	}

	return &TelegramNotifier{
		bot:     bot,
		chatIDs: chatIDs,
		bus:     bus,
		store:   store,
		logger:  log,
	}, nil
}

// Start subscribes to booking changes. Sends happen on their own
// goroutine; bus handlers must not block.
func (n *TelegramNotifier) Start() {
	n.subID = n.bus.Subscribe(events.TopicBookings, func(event events.Event) {
		go n.notify(event)
	})
}

func (n *TelegramNotifier) Stop() {
	if n.subID != "" {
		n.bus.Unsubscribe(events.TopicBookings, n.subID)
	}
}

func (n *TelegramNotifier) notify(event events.Event) {
	if event.Action != events.ActionInsert && event.Action != events.ActionUpdate {
		return
	}

	ctx := context.Background()
	detail, err := n.store.GetBookingDetail(ctx, event.RowID)
	if err != nil || detail == nil {
		n.logger.Error().Err(err).Str("booking_id", event.RowID).Msg("booking lookup for notification failed")
		return
	}

	var text string
	if event.Action == events.ActionInsert {
		text = newBookingMessage(detail)
	} else {
		text = statusChangeMessage(detail)
	}

	for _, chatID := range n.chatIDs {
		msg := tgbotapi.NewMessage(chatID, text)
		if _, err := n.bot.Send(msg); err != nil {
			n.logger.Error().Err(err).Int64("chat_id", chatID).Msg("telegram send failed")
		}
	}
}

func newBookingMessage(detail *models.BookingDetail) string {
	var message strings.Builder
	message.WriteString("🖨️ Booking baru masuk!\n\n")
	fmt.Fprintf(&message, "Kode: %s\n", detail.ID)
	fmt.Fprintf(&message, "Pelanggan: %s (%s)\n", detail.Customer.Name, detail.Customer.Phone)
	if detail.PrinterBrand != "" {
		fmt.Fprintf(&message, "Printer: %s %s\n", detail.PrinterBrand, detail.PrinterModel)
	}
	if detail.ProblemCategory != "" {
		fmt.Fprintf(&message, "Masalah: %s\n", detail.ProblemCategory)
	}
	fmt.Fprintf(&message, "Layanan: %s\n", detail.ServiceType)
	fmt.Fprintf(&message, "Jadwal: %s %s\n", detail.AppointmentDate, detail.AppointmentTime)
	fmt.Fprintf(&message, "Estimasi: %s\n", detail.EstimatedCost)
	fmt.Fprintf(&message, "Teknisi: %s", detail.Technician)
	return message.String()
}

func statusChangeMessage(detail *models.BookingDetail) string {
	var message strings.Builder
	fmt.Fprintf(&message, "🔧 Booking %s: %s\n", detail.ID, statusLabel(detail.Status))
	fmt.Fprintf(&message, "Pelanggan: %s (%s)\n", detail.Customer.Name, detail.Customer.Phone)
	fmt.Fprintf(&message, "Teknisi: %s", detail.Technician)
	if detail.ActualCost != "" {
		fmt.Fprintf(&message, "\nBiaya akhir: %s", detail.ActualCost)
	}
	return message.String()
}

func statusLabel(status string) string {
	for _, stage := range models.TimelineStages {
		if stage.Status == status {
			return stage.Title
		}
	}
	if status == models.StatusCancelled {
		return "Booking Dibatalkan"
	}
	return status
}
