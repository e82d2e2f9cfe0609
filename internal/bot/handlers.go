package bot

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/englishboss/internal/ai"
	"github.com/example/englishboss/pkg/models"
)

// Callback data for the inline menus
const (
	callbackHome      = "home"
	callbackVocab     = "menu_vocab"
	callbackGrammar   = "menu_grammar"
	callbackListening = "menu_listening"
	callbackVoice     = "menu_voice"
	callbackReview    = "menu_review"
	callbackSettings  = "menu_settings"
)

func homeKeyboard() tgbotapi.InlineKeyboardMarkup {
	return createKeyboard([][]MenuButton{
		{{Text: "🏠 Home", CallbackData: callbackHome}},
	})
}

func mainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return createKeyboard([][]MenuButton{
		{
			{Text: "📚 Vocabulary", CallbackData: callbackVocab},
			{Text: "🧩 Grammar", CallbackData: callbackGrammar},
		},
		{
			{Text: "🎧 Listening", CallbackData: callbackListening},
			{Text: "🎙️ Voice ↔ Translate", CallbackData: callbackVoice},
		},
		{
			{Text: "🗓️ Review (SRS)", CallbackData: callbackReview},
		},
		{
			{Text: "⚙️ Settings", CallbackData: callbackSettings},
		},
	})
}

// handleUpdate routes one incoming Telegram update.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallbackQuery(ctx, update.CallbackQuery)
	case update.Message == nil:
		return
	case update.Message.IsCommand():
		b.handleCommand(ctx, update.Message)
	case update.Message.Voice != nil || update.Message.Audio != nil:
		b.handleVoice(ctx, update.Message)
	case update.Message.Text != "":
		b.handleText(ctx, update.Message)
	}
}

func (b *Bot) handleCommand(ctx context.Context, message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.handleStart(ctx, message)
	case "help":
		b.handleHelp(message)
	case "review":
		b.startReview(ctx, message.Chat.ID, message.From.ID)
	case "import_sample":
		b.handleImportSample(ctx, message)
	default:
		msg := tgbotapi.NewMessage(message.Chat.ID, "Unknown command. Use /start for the main menu.")
		b.send(msg)
	}
}

func (b *Bot) handleStart(ctx context.Context, message *tgbotapi.Message) {
	user := &models.User{
		ID:       message.From.ID,
		Username: message.From.UserName,
		Timezone: os.Getenv("DEFAULT_TIMEZONE"),
	}
	if err := b.userRepo.Upsert(ctx, user); err != nil {
		log.Printf("Error upserting user %d: %v", user.ID, err)
	}

	text := fmt.Sprintf("سلام %s! Welcome to English Boss.\nChoose a section:", message.From.FirstName)
	msg := tgbotapi.NewMessage(message.Chat.ID, text)
	msg.ReplyMarkup = mainMenuKeyboard()
	b.send(msg)
}

func (b *Bot) handleHelp(message *tgbotapi.Message) {
	msg := tgbotapi.NewMessage(message.Chat.ID,
		"Use /start for the main menu. Send a voice in *Voice ↔ Translate*.\n"+
			"To import your own CSV, send the file and reply with `#import`.\n"+
			"Use the *Review (SRS)* section for spaced repetition.")
	msg.ParseMode = "Markdown"
	b.send(msg)
}

func (b *Bot) handleCallbackQuery(ctx context.Context, callback *tgbotapi.CallbackQuery) {
	// Acknowledge the tap so the client stops the spinner.
	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		log.Printf("Error answering callback query: %v", err)
	}

	chatID := callback.Message.Chat.ID
	userID := callback.From.ID

	switch callback.Data {
	case callbackHome:
		b.editOrSend(chatID, callback.Message.MessageID, "Home", mainMenuKeyboard())
	case callbackVoice:
		b.editOrSend(chatID, callback.Message.MessageID,
			"Send a voice message (Persian or English). I'll transcribe and translate.", homeKeyboard())
	case callbackVocab:
		b.editOrSend(chatID, callback.Message.MessageID,
			"Vocabulary deck: use /import_sample or upload a CSV then reply #import.\nThen go to Review (SRS).", homeKeyboard())
	case callbackReview:
		b.startReview(ctx, chatID, userID)
	case callbackGrammar, callbackListening, callbackSettings:
		b.editOrSend(chatID, callback.Message.MessageID,
			"Coming soon — after MVP. Use Vocabulary + SRS for now.", homeKeyboard())
	}
}

func (b *Bot) editOrSend(chatID int64, messageID int, text string, keyboard tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, keyboard)
	if _, err := b.api.Send(edit); err != nil {
		msg := tgbotapi.NewMessage(chatID, text)
		msg.ReplyMarkup = keyboard
		b.send(msg)
	}
}

// startReview serves the user's most overdue word, or reports that nothing
// is due.
func (b *Bot) startReview(ctx context.Context, chatID, userID int64) {
	prompt, err := b.manager.PresentNextDue(ctx, userID)
	if err != nil {
		log.Printf("Error fetching next due word for user %d: %v", userID, err)
		b.sendFailure(chatID)
		return
	}
	if prompt == nil {
		msg := tgbotapi.NewMessage(chatID, "Nothing due now. Import sample with /import_sample.")
		msg.ReplyMarkup = homeKeyboard()
		b.send(msg)
		return
	}

	msg := tgbotapi.NewMessage(chatID, prompt.Text)
	msg.ReplyMarkup = homeKeyboard()
	b.send(msg)
}

// handleText grades a pending quiz answer, or runs the #import flow.
func (b *Bot) handleText(ctx context.Context, message *tgbotapi.Message) {
	if strings.TrimSpace(message.Text) == "#import" {
		b.handleImportReply(ctx, message)
		return
	}

	userID := message.From.ID
	feedback, err := b.manager.SubmitAnswer(ctx, userID, message.Text)
	if err != nil {
		log.Printf("Error grading answer for user %d: %v", userID, err)
		b.sendFailure(message.Chat.ID)
		return
	}
	if feedback == nil {
		// No quiz pending: stray text is not ours to handle.
		return
	}

	var text string
	if feedback.Success {
		text = fmt.Sprintf("✅ Correct (%d%%). Next box → %d", feedback.Score, feedback.NewBox)
	} else {
		text = fmt.Sprintf("❌ Not quite (%d%%). Answer: %s. Box reset → 1", feedback.Score, feedback.Answer)
	}
	b.send(tgbotapi.NewMessage(message.Chat.ID, text))

	// Feedback is delivered; advance to the next due word.
	b.startReview(ctx, message.Chat.ID, userID)
}

// handleImportReply imports the CSV or xlsx document the user replied to.
func (b *Bot) handleImportReply(ctx context.Context, message *tgbotapi.Message) {
	if message.ReplyToMessage == nil || message.ReplyToMessage.Document == nil {
		b.send(tgbotapi.NewMessage(message.Chat.ID, "Reply to a CSV file with the text `#import`."))
		return
	}

	doc := message.ReplyToMessage.Document
	name := strings.ToLower(doc.FileName)
	if !strings.HasSuffix(name, ".csv") && !strings.HasSuffix(name, ".xlsx") {
		b.send(tgbotapi.NewMessage(message.Chat.ID, "Please attach a .csv or .xlsx file."))
		return
	}

	data, err := b.downloadFile(doc.FileID)
	if err != nil {
		log.Printf("Error downloading import file for user %d: %v", message.From.ID, err)
		b.sendFailure(message.Chat.ID)
		return
	}

	var count int
	if strings.HasSuffix(name, ".xlsx") {
		count, err = b.importExcelBytes(ctx, message.From.ID, data)
	} else {
		count, err = b.importer.ImportCSV(ctx, message.From.ID, bytes.NewReader(data))
	}
	if err != nil {
		log.Printf("Error importing words for user %d: %v", message.From.ID, err)
		b.sendFailure(message.Chat.ID)
		return
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, fmt.Sprintf("Imported %d words. Go to Review (SRS).", count))
	msg.ReplyMarkup = homeKeyboard()
	b.send(msg)
}

func (b *Bot) handleImportSample(ctx context.Context, message *tgbotapi.Message) {
	f, err := os.Open(b.config.SampleDatasetPath)
	if err != nil {
		b.send(tgbotapi.NewMessage(message.Chat.ID, "Sample dataset missing."))
		return
	}
	defer f.Close()

	count, err := b.importer.ImportCSV(ctx, message.From.ID, f)
	if err != nil {
		log.Printf("Error importing sample for user %d: %v", message.From.ID, err)
		b.sendFailure(message.Chat.ID)
		return
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, fmt.Sprintf("Imported %d words. Open Review (SRS).", count))
	msg.ReplyMarkup = homeKeyboard()
	b.send(msg)
}

// importExcelBytes stages the payload in a temp file for excelize.
func (b *Bot) importExcelBytes(ctx context.Context, userID int64, data []byte) (int, error) {
	tmp, err := os.CreateTemp("", "import-*.xlsx")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("write temp file: %w", err)
	}
	tmp.Close()
	return b.importer.ImportExcel(ctx, userID, filepath.Clean(tmp.Name()))
}

// handleVoice transcribes a voice note and translates it across the
// Persian/English boundary.
func (b *Bot) handleVoice(ctx context.Context, message *tgbotapi.Message) {
	if b.aiClient == nil {
		b.send(tgbotapi.NewMessage(message.Chat.ID, "Voice transcription is not configured."))
		return
	}

	var fileID string
	if message.Voice != nil {
		fileID = message.Voice.FileID
	} else {
		fileID = message.Audio.FileID
	}

	audio, err := b.downloadFile(fileID)
	if err != nil {
		log.Printf("Error downloading voice file: %v", err)
		b.sendFailure(message.Chat.ID)
		return
	}

	text, err := b.aiClient.Transcribe(ctx, audio, "voice.ogg")
	if err != nil {
		log.Printf("Error transcribing voice: %v", err)
		b.sendFailure(message.Chat.ID)
		return
	}

	target := "fa"
	if ai.ContainsPersian(text) {
		target = "en"
	}
	translated, err := b.aiClient.Translate(ctx, text, target)
	if err != nil {
		log.Printf("Error translating text: %v", err)
		b.sendFailure(message.Chat.ID)
		return
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, fmt.Sprintf("📝 %s\n\n🌐 %s", text, translated))
	msg.ReplyMarkup = homeKeyboard()
	b.send(msg)
}

// downloadFile fetches a Telegram file payload by its file ID.
func (b *Bot) downloadFile(fileID string) ([]byte, error) {
	url, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("resolve file URL: %w", err)
	}
	resp, err := http.Get(url)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (b *Bot) sendFailure(chatID int64) {
	b.send(tgbotapi.NewMessage(chatID, "Something went wrong. Please try again."))
}
