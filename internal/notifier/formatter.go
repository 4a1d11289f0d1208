package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"TrendLabeler/internal/model"
)

const maxListedErrors = 5

// FormatBuildReport formats a finished dataset build into a Telegram message.
func FormatBuildReport(rep *model.BuildReport) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>TrendLabeler 数据集构建</b> | %s\n\n", rep.FinishedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("构建ID: <code>%s</code>\n", rep.BuildID))
	b.WriteString(fmt.Sprintf("市场/数据源: %s / %s\n", html.EscapeString(rep.Market), html.EscapeString(rep.Source)))
	b.WriteString(fmt.Sprintf("股票数: %d (跳过 %d)\n", len(rep.Codes), len(rep.SkippedCodes)))
	b.WriteString(fmt.Sprintf("窗口: 输入 %d / 输出 %d\n", rep.InputWindow, rep.OutputWindow))
	b.WriteString(fmt.Sprintf("样本: 训练 %d | 验证 %d | 合计 %d\n\n", rep.TrainCount, rep.ValCount, rep.Total()))

	b.WriteString("📈 <b>标签分布:</b>\n")
	for _, t := range model.AllTrends {
		b.WriteString(fmt.Sprintf("  %s: %d (%.1f%%)\n", t, rep.Labels[t.Label()], rep.Labels.Share(t)*100))
	}

	if rep.DatasetPath != "" {
		b.WriteString(fmt.Sprintf("\n💾 %s\n", html.EscapeString(rep.DatasetPath)))
	}
	b.WriteString(fmt.Sprintf("⏱ 耗时: %s\n", rep.FinishedAt.Sub(rep.StartedAt).Round(time.Millisecond)))

	if len(rep.Errors) > 0 {
		b.WriteString(fmt.Sprintf("\n⚠️ <b>错误 (%d):</b>\n", len(rep.Errors)))
		for i, e := range rep.Errors {
			if i == maxListedErrors {
				b.WriteString(fmt.Sprintf("  ... 另有 %d 条\n", len(rep.Errors)-maxListedErrors))
				break
			}
			b.WriteString(fmt.Sprintf("  %s\n", html.EscapeString(e)))
		}
	}
	return b.String()
}

// FormatBuildFailure formats a build that produced no dataset.
func FormatBuildFailure(err error) string {
	return fmt.Sprintf("❌ <b>数据集构建失败</b>\n\n%s", html.EscapeString(err.Error()))
}

// FormatStatus describes the scheduler state for the /status command.
func FormatStatus(last *model.BuildReport, running bool, next time.Time) string {
	var b strings.Builder
	b.WriteString("📦 <b>TrendLabeler 状态</b>\n\n")
	if running {
		b.WriteString("构建进行中 ⏳\n")
	}
	if last == nil {
		b.WriteString("尚未完成任何构建\n")
	} else {
		b.WriteString(fmt.Sprintf("上次构建: %s\n", last.FinishedAt.Format("2006-01-02 15:04")))
		b.WriteString(fmt.Sprintf("样本数: %d (训练 %d / 验证 %d)\n", last.Total(), last.TrainCount, last.ValCount))
	}
	if !next.IsZero() {
		b.WriteString(fmt.Sprintf("下次构建: %s\n", next.Format("2006-01-02 15:04")))
	}
	return b.String()
}
