package cmd

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/spf13/cobra"

	"github.com/khrees2412/mockprep/internal/app"
	"github.com/khrees2412/mockprep/internal/extract"
	"github.com/khrees2412/mockprep/internal/service"
	"github.com/khrees2412/mockprep/pkg/models"
)

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Manage your resume",
	Long:  "Upload, inspect and delete the resume used for interview practice",
}

var showResumeCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the uploaded resume",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, session, err := signedIn(cmd)
		if err != nil {
			return err
		}
		resume, err := svc.Resume.Fetch(cmd.Context(), session)
		if err != nil {
			return err
		}
		if resume == nil {
			fmt.Println("No resume uploaded. Upload one with 'mockprep resume upload <file>'")
			return nil
		}
		printResume(resume)
		return nil
	},
}

func printResume(r *models.Resume) {
	fmt.Println(titleStyle.Render("Your Resume"))
	fmt.Printf("%s %s\n", labelStyle.Render("File:"), valueStyle.Render(r.FileName))
	fmt.Printf("%s %s\n", labelStyle.Render("Size:"), valueStyle.Render(formatFileSize(r.FileSize)))
	fmt.Printf("%s %s\n", labelStyle.Render("Status:"), valueStyle.Render(resumeStatusLabel(r.Status)))
	fmt.Printf("%s %s %s\n", labelStyle.Render("Uploaded:"),
		valueStyle.Render(absoluteTime(r.UploadDate)),
		mutedStyle.Render("("+relativeTime(r.UploadDate)+")"))
	fmt.Printf("%s %s\n", labelStyle.Render("Path:"), mutedStyle.Render(r.FilePath))
}

var uploadResumeCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a resume (PDF, Word or plain text)",
	Args:  cobra.ExactArgs(1),
	Example: `  mockprep resume upload ~/Documents/resume.pdf
  mockprep resume upload ./resume.docx --save-text`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, session, err := signedIn(cmd)
		if err != nil {
			return err
		}
		file, closeFile, err := openUpload(args[0])
		if err != nil {
			return err
		}
		defer closeFile()

		saveText, _ := cmd.Flags().GetBool("save-text")
		if saveText {
			if err := checkExtractable(file); err != nil {
				return err
			}
		}

		resume, err := svc.Resume.Upload(cmd.Context(), session, file, progressBar())
		fmt.Println()
		if err != nil {
			return err
		}
		fmt.Println(successStyle.Render("✓ Resume uploaded"))
		printResume(resume)

		if saveText {
			return saveExtractedText(cmd, svc, session)
		}
		return nil
	},
}

// progressBar redraws a single-line bar for each reported percentage
func progressBar() service.ProgressFunc {
	var mu sync.Mutex
	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(40))
	return func(percent int) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Printf("\r%s %3d%%", bar.ViewAs(float64(percent)/100), percent)
	}
}

// checkExtractable fails before upload when --save-text could not read the file
func checkExtractable(file service.UploadFile) error {
	if !extract.Supported(file.ContentType) {
		return fmt.Errorf("%w: text extraction unsupported for %s, use PDF, DOCX or TXT with --save-text",
			app.ErrInvalidArgument, filepath.Ext(file.Name))
	}
	return nil
}

func saveExtractedText(cmd *cobra.Command, svc *service.Services, session *models.Session) error {
	text, err := svc.Resume.ExtractText(cmd.Context(), session)
	if err != nil {
		return err
	}
	if _, err := svc.Profile.SaveResumeText(cmd.Context(), session, text); err != nil {
		return err
	}
	fmt.Println(successStyle.Render(fmt.Sprintf("✓ Saved %d characters of resume text to your profile", len(text))))
	return nil
}

var deleteResumeCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the uploaded resume",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, session, err := signedIn(cmd)
		if err != nil {
			return err
		}
		if err := svc.Resume.Delete(cmd.Context(), session); err != nil {
			return err
		}
		fmt.Println(successStyle.Render("✓ Resume deleted"))
		return nil
	},
}

var resumeTextOutCmd = &cobra.Command{
	Use:   "text",
	Short: "Print the text extracted from the uploaded resume",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, session, err := signedIn(cmd)
		if err != nil {
			return err
		}
		if save, _ := cmd.Flags().GetBool("save"); save {
			return saveExtractedText(cmd, svc, session)
		}
		text, err := svc.Resume.ExtractText(cmd.Context(), session)
		if err != nil {
			return err
		}
		fmt.Println(text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resumeCmd)
	resumeCmd.AddCommand(showResumeCmd)
	resumeCmd.AddCommand(uploadResumeCmd)
	resumeCmd.AddCommand(deleteResumeCmd)
	resumeCmd.AddCommand(resumeTextOutCmd)

	uploadResumeCmd.Flags().Bool("save-text", false, "Also store the extracted text on your profile")
	resumeTextOutCmd.Flags().Bool("save", false, "Store the extracted text on your profile instead of printing it")
}
