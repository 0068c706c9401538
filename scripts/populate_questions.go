// 题库批量导入脚本
//
// 从 JSON 文件读取题目并写入数据库，已存在的同名题目跳过。
//
// 用法: go run scripts/populate_questions.go [题目文件路径]

package main

import (
	"encoding/json"
	"log"
	"os"

	"english_exam_backend/internal/config"
	"english_exam_backend/internal/model"
	"english_exam_backend/pkg/database"
	"english_exam_backend/pkg/logger"

	"gopkg.in/yaml.v3"
)

type seedOption struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

type seedQuestion struct {
	Text    string       `json:"text"`
	Level   string       `json:"level"`
	Options []seedOption `json:"options"`
}

func main() {
	questionsPath := "scripts/questions.json"
	if len(os.Args) > 1 {
		questionsPath = os.Args[1]
	}

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database, cfg.Admin.Password)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	raw, err := os.ReadFile(questionsPath)
	if err != nil {
		log.Fatalf("无法读取题目文件 %s: %v", questionsPath, err)
	}

	var seeds []seedQuestion
	if err := json.Unmarshal(raw, &seeds); err != nil {
		log.Fatalf("解析题目文件失败: %v", err)
	}

	created, skipped := 0, 0
	for _, seed := range seeds {
		if !model.IsValidLevel(seed.Level) {
			log.Printf("跳过非法等级 %q 的题目: %s", seed.Level, seed.Text)
			skipped++
			continue
		}

		correct := 0
		for _, opt := range seed.Options {
			if opt.IsCorrect {
				correct++
			}
		}
		if len(seed.Options) < 2 || correct != 1 {
			log.Printf("跳过选项不合法的题目: %s", seed.Text)
			skipped++
			continue
		}

		var count int64
		db.Model(&model.Question{}).Where("text = ?", seed.Text).Count(&count)
		if count > 0 {
			skipped++
			continue
		}

		question := model.Question{
			Text:  seed.Text,
			Level: model.ProficiencyLevel(seed.Level),
		}
		for _, opt := range seed.Options {
			question.Options = append(question.Options, model.Option{
				Text:      opt.Text,
				IsCorrect: opt.IsCorrect,
			})
		}
		if err := db.Create(&question).Error; err != nil {
			log.Fatalf("写入题目失败: %v", err)
		}
		created++
	}

	log.Printf("完成！新增 %d 题，跳过 %d 题。", created, skipped)
}
