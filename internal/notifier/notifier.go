package notifier

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"nse-option-sentry/pkg/types"
)

// Interface delivers strategy suggestions to the operator.
type Interface interface {
	SendSignal(signal types.StrategySignal) error
	SendBatch(signals []types.StrategySignal) error
}

// ConsoleNotifier prints suggestions to stdout. It is the terminal
// fallback of every other notifier, so it never fails.
type ConsoleNotifier struct{}

func NewConsoleNotifier() *ConsoleNotifier {
	return &ConsoleNotifier{}
}

func (cn *ConsoleNotifier) SendSignal(signal types.StrategySignal) error {
	cn.printSignal(signal)
	return nil
}

func (cn *ConsoleNotifier) SendBatch(signals []types.StrategySignal) error {
	if len(signals) == 0 {
		return nil
	}

	border := "╔" + strings.Repeat("═", 72) + "╗"
	bottomBorder := "╚" + strings.Repeat("═", 72) + "╝"

	fmt.Println()
	fmt.Println(border)
	fmt.Printf("║ %-70s ║\n", fmt.Sprintf("Scan results: %d suggestions", len(signals)))
	fmt.Println("║" + strings.Repeat(" ", 72) + "║")
	for i, signal := range signals {
		line := fmt.Sprintf("%d. [%s] %s  entry %s  target %s  sl %s",
			i+1, signal.Strategy, signal.Label,
			signal.Entry.StringFixed(2), signal.Target.StringFixed(2), signal.StopLoss.StringFixed(2))
		fmt.Printf("║ %-70s ║\n", line)
	}
	fmt.Println(bottomBorder)
	fmt.Println()
	return nil
}

func (cn *ConsoleNotifier) printSignal(signal types.StrategySignal) {
	arrow := "📈"
	if signal.Direction.Bearish() {
		arrow = "📉"
	}

	border := "╔" + strings.Repeat("═", 60) + "╗"
	bottomBorder := "╚" + strings.Repeat("═", 60) + "╝"

	fmt.Println()
	fmt.Println(border)
	fmt.Printf("║ %s %-56s ║\n", arrow, signal.Label)
	fmt.Println("║" + strings.Repeat(" ", 60) + "║")
	fmt.Printf("║ Strategy:  %-47s ║\n", signal.Strategy)
	fmt.Printf("║ Strike:    %-47s ║\n", fmt.Sprintf("%d %s (%s)", signal.Strike, signal.OptionType, signal.StrikeRationale))
	fmt.Printf("║ Entry:     %-47s ║\n", signal.Entry.StringFixed(2))
	fmt.Printf("║ Target:    %-47s ║\n", signal.Target.StringFixed(2))
	fmt.Printf("║ Stop loss: %-47s ║\n", signal.StopLoss.StringFixed(2))
	fmt.Printf("║ Band:      %-47s ║\n", signal.PremiumBand)
	fmt.Printf("║ Expiry:    %-47s ║\n", signal.Expiry.Format("2006-01-02"))
	fmt.Println(bottomBorder)
	fmt.Println()
}

// TelegramNotifier pushes suggestions through a Telegram bot. Send
// failures degrade to console output so a signal is never silently
// lost.
type TelegramNotifier struct {
	botToken   string
	chatID     string
	httpClient *http.Client
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

// NewTelegramNotifier returns a Telegram-backed notifier, or the
// console notifier when no bot token is configured.
func NewTelegramNotifier(config types.TelegramConfig) Interface {
	if config.BotToken == "" || config.ChatID == "" {
		zap.L().Info("telegram not configured, using console output")
		return NewConsoleNotifier()
	}

	zap.L().Info("telegram notifier configured")
	return &TelegramNotifier{
		botToken: config.BotToken,
		chatID:   config.ChatID,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (tn *TelegramNotifier) SendSignal(signal types.StrategySignal) error {
	text := tn.buildMessage(signal)
	if err := tn.sendMessage(text); err != nil {
		zap.L().Warn("telegram send failed, falling back to console", zap.Error(err))
		return NewConsoleNotifier().SendSignal(signal)
	}
	return nil
}

func (tn *TelegramNotifier) SendBatch(signals []types.StrategySignal) error {
	if len(signals) == 0 {
		return nil
	}
	if len(signals) == 1 {
		return tn.SendSignal(signals[0])
	}

	var b strings.Builder
	fmt.Fprintf(&b, "*Scan results: %d suggestions*\n\n", len(signals))
	for _, signal := range signals {
		fmt.Fprintf(&b, "`%s`\n%s | %s | entry %s | tgt %s | sl %s\n\n",
			signal.Label, signal.Strategy, signal.PremiumBand,
			signal.Entry.StringFixed(2), signal.Target.StringFixed(2), signal.StopLoss.StringFixed(2))
	}

	if err := tn.sendMessage(b.String()); err != nil {
		zap.L().Warn("telegram batch send failed, falling back to console", zap.Error(err))
		return NewConsoleNotifier().SendBatch(signals)
	}
	return nil
}

func (tn *TelegramNotifier) buildMessage(signal types.StrategySignal) string {
	arrow := "📈"
	if signal.Direction.Bearish() {
		arrow = "📉"
	}

	return fmt.Sprintf(`%s *%s*

*Strategy*: %s
*Strike*: %d %s (%s)
*Entry*: %s
*Target*: %s
*Stop loss*: %s
*Premium band*: %s
*Expiry*: %s`,
		arrow, signal.Label,
		signal.Strategy,
		signal.Strike, signal.OptionType, signal.StrikeRationale,
		signal.Entry.StringFixed(2),
		signal.Target.StringFixed(2),
		signal.StopLoss.StringFixed(2),
		signal.PremiumBand,
		signal.Expiry.Format("2006-01-02"))
}

func (tn *TelegramNotifier) sendMessage(text string) error {
	apiURL := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", tn.botToken)

	form := url.Values{}
	form.Set("chat_id", tn.chatID)
	form.Set("text", text)
	form.Set("parse_mode", "Markdown")

	resp, err := tn.httpClient.PostForm(apiURL, form)
	if err != nil {
		return fmt.Errorf("telegram request: %w", err)
	}
	defer resp.Body.Close()

	var apiResp telegramResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return fmt.Errorf("parse telegram response: %w", err)
	}
	if !apiResp.OK {
		return fmt.Errorf("telegram API: %s", apiResp.Description)
	}
	return nil
}
