package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ambassadord/internal/models"
	"ambassadord/internal/scoring"

	"github.com/xuri/excelize/v2"
)

// ExportService выгружает лидерборд в xlsx для кураторов программы.
type ExportService struct {
	leaderboard *LeaderboardService
	exportPath  string
}

func NewExportService(leaderboard *LeaderboardService, exportPath string) *ExportService {
	if exportPath == "" {
		exportPath = "exports"
	}
	return &ExportService{leaderboard: leaderboard, exportPath: exportPath}
}

// LeaderboardToExcel создает файл с текущим лидербордом и возвращает путь.
func (s *ExportService) LeaderboardToExcel(ctx context.Context) (string, error) {
	if err := os.MkdirAll(s.exportPath, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	users, err := s.leaderboard.Top(ctx, 0)
	if err != nil {
		return "", fmt.Errorf("load leaderboard: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Leaderboard"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headers := []string{"Rank", "Username", "Region", "Points", "Followers"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, h)
	}

	for row, u := range users {
		values := []interface{}{u.Rank, u.Username, u.Region, u.Points, u.FollowerCount}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	_ = f.SetColWidth(sheetName, "B", "C", 20)

	name := fmt.Sprintf("leaderboard_%s.xlsx", time.Now().Format("20060102_150405"))
	path := filepath.Join(s.exportPath, name)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save export: %w", err)
	}
	return path, nil
}

// ScoreDistribution гистограмма итоговых рейтингов одобренных публикаций.
func ScoreDistribution(subs []models.Submission) [5]int {
	var scores []float64
	for _, sub := range subs {
		if sub.Status == models.StatusApproved && sub.Rating != nil {
			scores = append(scores, sub.Rating.TotalScore)
		}
	}
	return scoring.ScoreBuckets(scores)
}
