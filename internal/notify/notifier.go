package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/vstrvlno/tenderubot2/internal/model"
)

// Sender はユーザーへのテキストメッセージ送信のインターフェース。
type Sender interface {
	SendText(chatID int64, text string) error
}

// Notifier はマッチ結果をユーザーへ配信する。
// 1ユーザーあたりの通知件数をlimitPerUserで制限し、
// 超過分は件数だけをまとめた末尾メッセージで知らせる。
// 全送信はレートリミッターを通るため、Telegram APIの制限を超えない。
type Notifier struct {
	sender       Sender
	limiter      *rate.Limiter
	logger       *slog.Logger
	limitPerUser int
}

// NewNotifier はNotifierの新しいインスタンスを生成する。
// ratePerSecは全ユーザー合算の秒間送信数上限。
func NewNotifier(sender Sender, logger *slog.Logger, limitPerUser int, ratePerSec float64) *Notifier {
	return &Notifier{
		sender:       sender,
		limiter:      rate.NewLimiter(rate.Limit(ratePerSec), 1),
		logger:       logger,
		limitPerUser: limitPerUser,
	}
}

// Notify はユーザーごとの通知対象テンダーを配信する。
// あるユーザーへの送信失敗は記録して次のユーザーへ進み、
// 他のユーザーの通知には影響させない。
// 戻り値は通知を送ったユーザー数。
func (n *Notifier) Notify(ctx context.Context, matches map[int64][]*model.Tender) int {
	notified := 0

	for userID, tenders := range matches {
		if err := n.notifyUser(ctx, userID, tenders); err != nil {
			n.logger.Error("ユーザーへの通知に失敗しました",
				slog.Int64("user_id", userID),
				slog.Int("tenders", len(tenders)),
				slog.String("error", err.Error()),
			)
			continue
		}
		notified++
	}

	return notified
}

// notifyUser は1ユーザーへの通知一式を送信する。
func (n *Notifier) notifyUser(ctx context.Context, userID int64, tenders []*model.Tender) error {
	capped := tenders
	if len(capped) > n.limitPerUser {
		capped = capped[:n.limitPerUser]
	}

	for _, t := range capped {
		if err := n.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("レート制限の待機に失敗しました: %w", err)
		}
		if err := n.sender.SendText(userID, FormatTender(t)); err != nil {
			return fmt.Errorf("メッセージの送信に失敗しました: %w", err)
		}
	}

	if rest := len(tenders) - n.limitPerUser; rest > 0 {
		if err := n.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("レート制限の待機に失敗しました: %w", err)
		}
		tail := fmt.Sprintf("...и ещё %d тендеров.", rest)
		if err := n.sender.SendText(userID, tail); err != nil {
			return fmt.Errorf("末尾メッセージの送信に失敗しました: %w", err)
		}
	}

	return nil
}

// FormatTender は通知メッセージ本文を組み立てる。
func FormatTender(t *model.Tender) string {
	return fmt.Sprintf(
		"📌 %s\nНомер: %s\nЗаказчик: %s\nСумма: %s\nДата: %s",
		t.Name,
		t.PurchaseNumber,
		t.Customer,
		strconv.FormatFloat(t.Amount, 'f', -1, 64),
		t.PublishDate,
	)
}
