package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisheknakka-shyft/RecruitOS/internal/parsing"
	"github.com/abhisheknakka-shyft/RecruitOS/internal/schemas"
	"github.com/abhisheknakka-shyft/RecruitOS/internal/scoring"
	"github.com/abhisheknakka-shyft/RecruitOS/internal/types"
)

var (
	scoreCalibrationPath string
	scoreResumePath      string
	scoreOutputPath      string
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one resume against a calibration file",
	Long:  `Run the rule-based scoring engine offline: read a calibration JSON file and a resume (PDF or plain text), print the ranking payload as JSON.`,
	RunE:  runScore,
}

func init() {
	scoreCmd.Flags().StringVar(&scoreCalibrationPath, "calibration", "", "Path to calibration JSON file (required)")
	scoreCmd.Flags().StringVar(&scoreResumePath, "resume", "", "Path to resume PDF or text file (required)")
	scoreCmd.Flags().StringVar(&scoreOutputPath, "output", "", "Write the ranking payload to this file instead of stdout")
	scoreCmd.MarkFlagRequired("calibration")
	scoreCmd.MarkFlagRequired("resume")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(_ *cobra.Command, _ []string) error {
	raw, err := os.ReadFile(scoreCalibrationPath)
	if err != nil {
		return fmt.Errorf("failed to read calibration file: %w", err)
	}
	if err := schemas.ValidateCalibration(string(raw)); err != nil {
		return fmt.Errorf("calibration file is invalid: %w", err)
	}

	var create types.CalibrationCreate
	if err := json.Unmarshal(raw, &create); err != nil {
		return fmt.Errorf("failed to parse calibration file: %w", err)
	}
	cal := &types.Calibration{CalibrationCreate: create}

	resumeText, err := readResume(scoreResumePath)
	if err != nil {
		return err
	}
	if strings.TrimSpace(resumeText) == "" {
		return fmt.Errorf("resume %s contains no extractable text", scoreResumePath)
	}

	payload := scoring.ScoreResume(cal, resumeText)

	out, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}
	if scoreOutputPath != "" {
		return os.WriteFile(scoreOutputPath, append(out, '\n'), 0o644)
	}
	fmt.Println(string(out))
	return nil
}

func readResume(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read resume file: %w", err)
	}
	if strings.HasSuffix(strings.ToLower(path), ".pdf") {
		text, err := parsing.ExtractTextFromPDF(raw)
		if err != nil {
			return "", fmt.Errorf("failed to extract text from %s: %w", path, err)
		}
		return text, nil
	}
	return parsing.NormalizeText(string(raw)), nil
}
