package bot

import (
	"context"
	"fmt"
	"log"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/englishboss/internal/ai"
	"github.com/example/englishboss/internal/database"
	"github.com/example/englishboss/internal/importer"
	"github.com/example/englishboss/internal/review"
	"github.com/example/englishboss/internal/scheduler"
)

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// Bot is the Telegram gateway wiring updates into the review loop, the
// importer and the voice feature.
type Bot struct {
	api              *tgbotapi.BotAPI
	token            string
	config           *BotConfig
	manager          *review.Manager
	importer         *importer.Importer
	userRepo         *database.UserRepository
	reviewRepo       *database.ReviewRepository
	aiClient         *ai.Client // nil when OPENAI_API_KEY is absent
	scheduler        *scheduler.Scheduler
	schedulerEnabled bool
}

// New creates a bot instance from the environment. The Telegram token is
// required; a missing OpenAI key only disables the voice feature.
func New() (*Bot, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is not set")
	}

	if database.DB == nil {
		return nil, fmt.Errorf("database connection is not established")
	}

	wordRepo := database.NewWordRepository(database.DB)
	reviewRepo := database.NewReviewRepository(database.DB)
	userRepo := database.NewUserRepository(database.DB)

	var aiClient *ai.Client
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		client, err := ai.New(key)
		if err != nil {
			log.Printf("Warning: unable to initialize OpenAI client: %v", err)
		} else {
			aiClient = client
		}
	} else {
		log.Println("OPENAI_API_KEY is not set, voice transcription is disabled")
	}

	b := &Bot{
		token:            token,
		config:           DefaultConfig(),
		manager:          review.NewManager(reviewRepo, review.NewInMemorySessionStore()),
		importer:         importer.New(wordRepo, reviewRepo),
		userRepo:         userRepo,
		reviewRepo:       reviewRepo,
		aiClient:         aiClient,
		schedulerEnabled: os.Getenv("ENABLE_SCHEDULER") != "false",
	}
	b.scheduler = scheduler.New(b, userRepo, reviewRepo)

	return b, nil
}

// Start connects to Telegram and consumes updates until the context is
// canceled.
func (b *Bot) Start(ctx context.Context) error {
	botAPI, err := tgbotapi.NewBotAPI(b.token)
	if err != nil {
		return fmt.Errorf("unable to create bot: %w", err)
	}
	b.api = botAPI
	log.Printf("Authorized on account %s", botAPI.Self.UserName)

	if b.schedulerEnabled {
		b.scheduler.Start()
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = b.config.UpdateTimeout
	updates := b.api.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

// Stop gracefully stops the bot
func (b *Bot) Stop() {
	if b.schedulerEnabled && b.scheduler != nil {
		b.scheduler.Stop()
	}
	log.Println("Bot stopped")
}

// SendDueReminder implements the scheduler.Notifier interface.
func (b *Bot) SendDueReminder(userID int64, count int) error {
	// For private chats the user ID and chat ID are the same.
	text := fmt.Sprintf("🗓️ You have %d word(s) due for review. Open Review (SRS) to practice.", count)
	msg := tgbotapi.NewMessage(userID, text)
	msg.ReplyMarkup = homeKeyboard()
	_, err := b.api.Send(msg)
	if err != nil {
		log.Printf("Error sending reminder to user %d: %v", userID, err)
	}
	return err
}

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}
