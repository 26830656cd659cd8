package report

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/archmich514/kiog/internal/domain/entities"
)

// Completer generates text from a prompt
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Synthesizer turns a combined transcript into a structured daily report
type Synthesizer struct {
	completer Completer
	parser    *Parser
	logger    *zap.Logger
}

// NewSynthesizer constructs a report synthesizer
func NewSynthesizer(completer Completer, logger *zap.Logger) *Synthesizer {
	return &Synthesizer{
		completer: completer,
		parser:    NewParser(),
		logger:    logger,
	}
}

// Synthesize generates the report content and tags from the day's
// combined transcript. Model errors propagate; malformed model output
// does not, it degrades to the raw text.
func (s *Synthesizer) Synthesize(ctx context.Context, transcript string, roster []entities.Member) (*SynthesisResult, error) {
	prompt := buildReportPrompt(transcript, roster)

	raw, err := s.completer.Complete(ctx, prompt, 2000)
	if err != nil {
		return nil, fmt.Errorf("report synthesis call failed: %w", err)
	}

	result := s.parser.ParseSynthesisResponse(raw)
	if result.Content == raw {
		s.logger.Warn("report response was not valid JSON, using raw content",
			zap.Int("response_length", len(raw)),
		)
	}
	return result, nil
}

func buildReportPrompt(transcript string, roster []entities.Member) string {
	var speakers strings.Builder
	for i, m := range roster {
		fmt.Fprintf(&speakers, "話者%d: %s\n", i+1, m.Name)
	}

	return fmt.Sprintf(`あなたは、同棲カップルの日常会話からレポートを生成するアシスタントです。

## 入力
- 二人の会話の文字起こしデータ（話者分離済み）
%s
## 出力形式

以下の形式でレポートを生成してください。JSONで出力してください。

{
  "content": "レポート本文（Markdown形式）",
  "tags": ["タグ1", "タグ2", ...]
}

レポート本文の形式：

---

■ 今日の会話

（話題ごとに段落を分けて要約。実際の発話は「」で引用する。）

■ 印象的なやりとり

（面白かった・印象に残る会話をそのまま抜粋。会話形式で記載。）

■ 今日のトピック

**決まったこと**
- （箇条書き。該当なしの場合は「特になし」）

**新しく知ったこと**
- （箇条書き。該当なしの場合は「特になし」）

**やりたいこと**
- （箇条書き。該当なしの場合は「特になし」）

**欲しいもの**
- （箇条書き。該当なしの場合は「特になし」）

**明日・近い予定**
- （箇条書き。該当なしの場合は「特になし」）

**記念日**
- （箇条書き。該当なしの場合は省略）

---

## ルール

1. 文章スタイル
   - ドキュメンタリー風の客観的な視点で記述する
   - 実際の発話は「」で引用し、そのまま記載する
   - 500文字以上1500文字以下で生成する

2. 禁止事項
   - 文字起こしに含まれない情報を追加しない（時間、場所、感情など）
   - 感情を推測して書かない（「嬉しそうだった」「楽しそうに話した」などはNG）
   - 事実にない解釈を加えない

3. 話題の分け方
   - 会話の流れに沿って、話題が変わったら段落を分ける
   - 各話題で具体的な発言を1〜2個は引用する

4. 印象的なやりとり
   - ユーモアのあるやりとり、意外な発言、二人らしさが出ている部分を選ぶ
   - 会話形式でそのまま抜粋する（3〜6発話程度）

5. タグ
   - 会話に出てきた具体的なキーワードを5〜10個抽出する
   - 固有名詞、物の名前、イベント名などを優先する
   - 「#」は含めず、キーワードのみ

## 会話データ

%s
`, speakers.String(), transcript)
}
