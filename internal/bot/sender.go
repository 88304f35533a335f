package bot

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vstrvlno/tenderubot2/internal/notify"
)

// TelegramAPI はtgbotapi.BotAPIのうちボットが使用する操作のインターフェース。
type TelegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

// TelegramSender はTelegram Bot API経由のメッセージ送信を提供する。
type TelegramSender struct {
	api TelegramAPI
}

// NewTelegramSender はTelegramSenderを生成する。
func NewTelegramSender(api TelegramAPI) *TelegramSender {
	return &TelegramSender{api: api}
}

// SendText はプレーンテキストのメッセージを送信する。
func (s *TelegramSender) SendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := s.api.Send(msg); err != nil {
		return fmt.Errorf("メッセージの送信に失敗しました: %w", err)
	}
	return nil
}

// compile-time interface check
var _ notify.Sender = (*TelegramSender)(nil)
