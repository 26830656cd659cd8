package main

import (
	"context"
	"fmt"
	"log"

	"github.com/archmich514/kiog/internal/adapter/repository"
	"github.com/archmich514/kiog/internal/domain/entities"
	"github.com/archmich514/kiog/internal/infrastructure/database"
	"github.com/archmich514/kiog/pkg/config"
)

// seedEntry is one master catalog row before id assignment
type seedEntry struct {
	text     string
	category string
}

// Master question catalog, 20 per slot, 5 categories per slot.
// IDs are assigned sequentially (q001..q060) so catalog order is stable.
var morningQuestions = []seedEntry{
	{"今日はどんな一日にしたい?", "plans"},
	{"今日いちばん楽しみにしていることは?", "plans"},
	{"今日絶対にやりたいことをひとつ教えて", "plans"},
	{"今日の予定で少し緊張していることはある?", "plans"},
	{"今朝の気分を天気にたとえると?", "mood"},
	{"目が覚めて最初に考えたことは?", "mood"},
	{"今日の自分に点数をつけるなら何点からスタート?", "mood"},
	{"今朝はどんな夢を見た?", "mood"},
	{"今週中に達成したい小さな目標は?", "goals"},
	{"最近挑戦したいと思っていることは?", "goals"},
	{"今日ひとつだけ成長できるとしたら何がいい?", "goals"},
	{"今月の終わりまでに終わらせたいことは?", "goals"},
	{"今朝ごはんは何を食べた?", "food"},
	{"今日のランチは何が食べたい?", "food"},
	{"朝に飲みたいのはコーヒー?お茶?それとも?", "food"},
	{"最近食べたいと思っている朝ごはんは?", "food"},
	{"今朝、ありがとうと思ったことは?", "gratitude"},
	{"昨日あった良いことをひとつ教えて", "gratitude"},
	{"いま当たり前だけど実はありがたいと思うものは?", "gratitude"},
	{"最近誰かに感謝を伝えた?", "gratitude"},
}

var afternoonQuestions = []seedEntry{
	{"いまの気分を一言で表すと?", "mood"},
	{"午前中でいちばん印象に残ったことは?", "mood"},
	{"いまのエネルギーは満タン?それとも充電が必要?", "mood"},
	{"午後の自分にかけたい言葉は?", "mood"},
	{"休憩するならいま何をしたい?", "break"},
	{"5分だけ自由時間があったら何をする?", "break"},
	{"いまいちばん飲みたいものは?", "break"},
	{"理想の昼休みの過ごし方は?", "break"},
	{"いま突然どこかへ行けるとしたらどこへ行く?", "daydream"},
	{"宝くじが当たったら最初に何をする?", "daydream"},
	{"もし今日が休みだったら何をしていた?", "daydream"},
	{"魔法がひとつ使えるなら何をする?", "daydream"},
	{"今週末は何をしたい?", "near-future"},
	{"次の休みに一緒に行きたい場所は?", "near-future"},
	{"近いうちに食べに行きたいものは?", "near-future"},
	{"今度ふたりで試してみたいことは?", "near-future"},
	{"最近気になっているニュースや話題は?", "small-talk"},
	{"最近見つけた面白いものを教えて", "small-talk"},
	{"いま頭の中でループしている曲は?", "small-talk"},
	{"最近笑ったことをひとつ教えて", "small-talk"},
}

var eveningQuestions = []seedEntry{
	{"今日あった小さな幸せは?", "small-joys"},
	{"今日、思わず笑顔になった瞬間は?", "small-joys"},
	{"今日の自分をほめるとしたらどこ?", "small-joys"},
	{"今日誰かに優しくできた?", "small-joys"},
	{"今日いちばん美味しかったものは?", "senses"},
	{"今日印象に残った景色や音はある?", "senses"},
	{"いま体のどこがいちばん疲れている?", "senses"},
	{"今日の空はどんな色だった?", "senses"},
	{"寝る前にやりたいことは?", "tonight"},
	{"今夜の夕食は何だった?または何にする?", "tonight"},
	{"今日は何時ごろ寝たい?", "tonight"},
	{"明日の朝の自分にメッセージを残すなら?", "tonight"},
	{"最近のお気に入りの曲や番組は?", "favorites"},
	{"いま一番好きな家の中の場所は?", "favorites"},
	{"最近買ってよかったものは?", "favorites"},
	{"何度でも食べたい大好物は?", "favorites"},
	{"子どもの頃の夜の思い出をひとつ教えて", "childhood"},
	{"小さい頃に好きだった遊びは?", "childhood"},
	{"子どもの頃の夢は何だった?", "childhood"},
	{"小さい頃の家族の習慣で覚えているものは?", "childhood"},
}

func buildCatalog() []*entities.Question {
	catalog := make([]*entities.Question, 0, 60)
	id := 0
	appendSlot := func(slot entities.TimeSlot, entries []seedEntry) {
		for _, e := range entries {
			id++
			catalog = append(catalog, &entities.Question{
				ID:       fmt.Sprintf("q%03d", id),
				Text:     e.text,
				TimeSlot: slot,
				Category: e.category,
			})
		}
	}
	appendSlot(entities.TimeSlotMorning, morningQuestions)
	appendSlot(entities.TimeSlotAfternoon, afternoonQuestions)
	appendSlot(entities.TimeSlotEvening, eveningQuestions)
	return catalog
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Println("📦 Connecting to MongoDB...")
	db, err := database.NewMongoDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.Close(context.Background())

	catalog := buildCatalog()

	questionRepo := repository.NewQuestionRepository(db)
	if err := questionRepo.SeedCatalog(context.Background(), catalog); err != nil {
		log.Fatalf("Failed to seed question catalog: %v", err)
	}

	log.Printf("✅ Seeded %d master questions", len(catalog))
}
