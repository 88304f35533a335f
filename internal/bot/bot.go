// Package bot はTelegramのチャットコマンド処理を提供する。
// 購読管理コマンドとオンデマンド取得トリガーをlong pollingで受け付ける。
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vstrvlno/tenderubot2/internal/model"
	"github.com/vstrvlno/tenderubot2/internal/worker/fetch"
)

// SubscriptionManager はボットが必要とする購読管理のインターフェース。
type SubscriptionManager interface {
	// Add は購読キーワードを冪等に追加する。既存の場合はfalseを返す。
	Add(ctx context.Context, userID int64, keyword string) (bool, error)
	// Remove は購読キーワードを削除する。存在しない場合はfalseを返す。
	Remove(ctx context.Context, userID int64, keyword string) (bool, error)
	// List はユーザーの購読キーワード一覧を追加順で返す。
	List(ctx context.Context, userID int64) ([]string, error)
}

// StatsProvider は統計情報取得のインターフェース。
type StatsProvider interface {
	Stats(ctx context.Context) (*model.Stats, error)
}

// CycleTrigger はオンデマンド取得サイクルのインターフェース。
type CycleTrigger interface {
	RunCycleOnce(ctx context.Context) (*fetch.CycleResult, error)
}

// ユーザー向けメッセージ。製品の表示言語はロシア語。
const (
	msgStart = "👋 Привет! Я TenderuBot — бот для поиска тендеров по ключевым словам.\n\n" +
		"Чтобы добавить ключевое слово, набери /addkeyword\n" +
		"Чтобы посмотреть список — /listkeywords\n" +
		"Чтобы запустить парсинг — /parse"
	msgHelp = "/start — запуск бота\n" +
		"/help — помощь\n" +
		"/about — информация\n" +
		"/addkeyword — добавить ключевое слово\n" +
		"/removekeyword — удалить ключевое слово\n" +
		"/listkeywords — список подписок\n" +
		"/stats — статистика\n" +
		"/parse — принудительно запустить парсер"
	msgAbout          = "ℹ️ О боте:"
	msgAboutInfo      = "🤖 Я нахожу тендеры по площадкам Казахстана и отправляю их по ключевым словам."
	msgAskAddKeyword  = "✍️ Введите ключевое слово, на которое хотите подписаться."
	msgAskDelKeyword  = "❌ Введите ключевое слово, которое нужно удалить."
	msgNoKeywords     = "У вас пока нет подписок."
	msgEmptyKeyword   = "❌ Ключевое слово пустое, операция отменена."
	msgParseStarted   = "🔍 Запрашиваю новые тендеры..."
	msgParseBusy      = "⏳ Парсер уже запущен, попробуйте позже."
	msgParseFailed    = "⚠️ Ошибка при парсинге, попробуйте позже."
	msgOperationError = "⚠️ Не удалось выполнить операцию, попробуйте позже."
	msgHint           = "💡 Введите команду /help, чтобы увидеть список доступных команд."
)

// callbackデータの識別子。/aboutのインラインキーボードで使用する。
const (
	callbackAboutInfo  = "about_info"
	callbackAboutStats = "about_stats"
)

// Bot はTelegramの更新を受信してコマンドを処理する。
type Bot struct {
	api     TelegramAPI
	subs    SubscriptionManager
	stats   StatsProvider
	trigger CycleTrigger
	logger  *slog.Logger
	state   *conversationState
}

// New はBotを生成する。
func New(api TelegramAPI, subs SubscriptionManager, stats StatsProvider, trigger CycleTrigger, logger *slog.Logger) *Bot {
	return &Bot{
		api:     api,
		subs:    subs,
		stats:   stats,
		trigger: trigger,
		logger:  logger,
		state:   newConversationState(defaultPendingTTL),
	}
}

// Run はlong pollingで更新の受信を開始する。
// コンテキストのキャンセルまたは更新チャネルのクローズで戻る。
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30

	updates := b.api.GetUpdatesChan(u)
	b.logger.Info("Telegramボットの受信を開始しました")

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Telegramボットの受信を停止します")
			return
		case update, ok := <-updates:
			if !ok {
				b.logger.Info("更新チャネルがクローズされました")
				return
			}
			b.handleUpdate(ctx, update)
		}
	}
}

// handleUpdate は1件の更新をディスパッチする。
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallback(ctx, update.CallbackQuery)
		return
	}
	if update.Message != nil {
		b.handleMessage(ctx, update.Message)
	}
}

// handleMessage はメッセージをコマンドまたはテキスト入力として処理する。
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}
	b.handleText(ctx, msg)
}

// handleCommand はスラッシュコマンドを処理する。
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	userID := msg.From.ID

	switch msg.Command() {
	case "start":
		b.reply(chatID, msgStart)
	case "help":
		b.reply(chatID, msgHelp)
	case "about":
		b.sendAboutMenu(chatID)
	case "addkeyword":
		b.state.Set(userID, actionAddKeyword)
		b.reply(chatID, msgAskAddKeyword)
	case "removekeyword":
		b.state.Set(userID, actionRemoveKeyword)
		b.reply(chatID, msgAskDelKeyword)
	case "listkeywords":
		b.handleListKeywords(ctx, chatID, userID)
	case "stats":
		b.handleStats(ctx, chatID)
	case "parse":
		b.handleParse(ctx, chatID)
	default:
		b.reply(chatID, msgHint)
	}
}

// handleText は入力待ち状態のキーワード入力を処理する。
// 入力待ち状態がない場合はヘルプへの誘導を返す。
func (b *Bot) handleText(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	userID := msg.From.ID

	action, pending := b.state.Pop(userID)
	if !pending {
		b.reply(chatID, msgHint)
		return
	}

	keyword := strings.TrimSpace(msg.Text)
	if keyword == "" {
		b.reply(chatID, msgEmptyKeyword)
		return
	}

	switch action {
	case actionAddKeyword:
		created, err := b.subs.Add(ctx, userID, keyword)
		if err != nil {
			b.logger.Error("購読の追加に失敗しました",
				slog.Int64("user_id", userID),
				slog.String("error", err.Error()),
			)
			b.reply(chatID, msgOperationError)
			return
		}
		if created {
			b.reply(chatID, fmt.Sprintf("✅ Подписка на '%s' добавлена.", keyword))
		} else {
			b.reply(chatID, fmt.Sprintf("ℹ️ Вы уже подписаны на '%s'.", keyword))
		}
	case actionRemoveKeyword:
		deleted, err := b.subs.Remove(ctx, userID, keyword)
		if err != nil {
			b.logger.Error("購読の削除に失敗しました",
				slog.Int64("user_id", userID),
				slog.String("error", err.Error()),
			)
			b.reply(chatID, msgOperationError)
			return
		}
		if deleted {
			b.reply(chatID, fmt.Sprintf("🗑️ Подписка на '%s' удалена.", keyword))
		} else {
			b.reply(chatID, fmt.Sprintf("ℹ️ Подписка на '%s' не найдена.", keyword))
		}
	}
}

// handleListKeywords は購読キーワード一覧を返信する。
func (b *Bot) handleListKeywords(ctx context.Context, chatID, userID int64) {
	keywords, err := b.subs.List(ctx, userID)
	if err != nil {
		b.logger.Error("購読一覧の取得に失敗しました",
			slog.Int64("user_id", userID),
			slog.String("error", err.Error()),
		)
		b.reply(chatID, msgOperationError)
		return
	}

	if len(keywords) == 0 {
		b.reply(chatID, msgNoKeywords)
		return
	}

	var sb strings.Builder
	sb.WriteString("📚 Ваши ключевые слова:")
	for _, kw := range keywords {
		sb.WriteString("\n— ")
		sb.WriteString(kw)
	}
	b.reply(chatID, sb.String())
}

// handleStats は統計情報を返信する。
func (b *Bot) handleStats(ctx context.Context, chatID int64) {
	stats, err := b.stats.Stats(ctx)
	if err != nil {
		b.logger.Error("統計情報の取得に失敗しました", slog.String("error", err.Error()))
		b.reply(chatID, msgOperationError)
		return
	}
	b.reply(chatID, formatStats(stats))
}

// handleParse はオンデマンドの取得サイクルを実行して結果を返信する。
// サイクルが既に実行中の場合はビジー応答を返す。
func (b *Bot) handleParse(ctx context.Context, chatID int64) {
	b.reply(chatID, msgParseStarted)

	result, err := b.trigger.RunCycleOnce(ctx)
	if err != nil {
		if errors.Is(err, model.ErrCycleInProgress) {
			b.reply(chatID, msgParseBusy)
			return
		}
		b.logger.Error("オンデマンド取得サイクルの実行に失敗しました", slog.String("error", err.Error()))
		b.reply(chatID, msgParseFailed)
		return
	}

	b.reply(chatID, fmt.Sprintf("✅ Готово. Добавлено %d новых тендеров.", result.New))
}

// handleCallback は/aboutのインラインキーボード操作を処理する。
func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	chatID := cq.Message.Chat.ID

	switch cq.Data {
	case callbackAboutInfo:
		b.reply(chatID, msgAboutInfo)
	case callbackAboutStats:
		b.handleStats(ctx, chatID)
	}

	// callbackの受領応答（ボタンのローディング表示を止める）
	if _, err := b.api.Request(tgbotapi.NewCallback(cq.ID, "")); err != nil {
		b.logger.Warn("callback応答に失敗しました", slog.String("error", err.Error()))
	}
}

// sendAboutMenu はインラインキーボード付きの/about応答を送信する。
func (b *Bot) sendAboutMenu(chatID int64) {
	kb := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Что делает бот?", callbackAboutInfo),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Статистика", callbackAboutStats),
		),
	)

	msg := tgbotapi.NewMessage(chatID, msgAbout)
	msg.ReplyMarkup = kb
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("メッセージの送信に失敗しました",
			slog.Int64("chat_id", chatID),
			slog.String("error", err.Error()),
		)
	}
}

// reply はプレーンテキストを返信する。送信失敗はログに記録して継続する。
func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("メッセージの送信に失敗しました",
			slog.Int64("chat_id", chatID),
			slog.String("error", err.Error()),
		)
	}
}

// formatStats は統計情報の表示テキストを組み立てる。
func formatStats(stats *model.Stats) string {
	return fmt.Sprintf("📊 В базе тендеров: %d\nПодписчиков: %d", stats.TenderCount, stats.SubscriberCount)
}
