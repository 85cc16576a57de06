package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/khrees2412/mockprep/internal/extract"
	"github.com/khrees2412/mockprep/internal/service"
	"github.com/khrees2412/mockprep/internal/validation"
	"github.com/khrees2412/mockprep/pkg/models"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your profile",
	Long:  "View and update the name, email, password and resume text on your profile",
}

var showProfileCmd = &cobra.Command{
	Use:   "show",
	Short: "Display your profile information",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, session, err := signedIn(cmd)
		if err != nil {
			return err
		}
		profile, err := svc.Profile.FetchProfile(cmd.Context(), session)
		if err != nil {
			return err
		}
		printProfile(profile)
		return nil
	},
}

func printProfile(p *models.Profile) {
	fmt.Println(titleStyle.Render(fmt.Sprintf("[%s] Your Profile", initials(p.Name))))
	fmt.Printf("%s %s\n", labelStyle.Render("Name:"), valueStyle.Render(p.Name))
	fmt.Printf("%s %s\n", labelStyle.Render("Email:"), valueStyle.Render(p.Email))
	fmt.Printf("%s %s\n", labelStyle.Render("Member since:"), valueStyle.Render(absoluteTime(p.CreatedAt)))
	if p.ResumeFileURL != "" {
		fmt.Printf("%s %s\n", labelStyle.Render("Resume file:"), valueStyle.Render(p.ResumeFileURL))
	}
	if p.Resume != "" {
		fmt.Printf("%s %s\n", labelStyle.Render("Resume text:"), mutedStyle.Render(truncate(p.Resume, 80)))
	}
}

var setProfileCmd = &cobra.Command{
	Use:   "set",
	Short: "Update your name or email",
	Example: `  mockprep profile set --name "Ada King"
  mockprep profile set --email ada@example.org`,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, session, err := signedIn(cmd)
		if err != nil {
			return err
		}
		current, err := svc.Profile.FetchProfile(cmd.Context(), session)
		if err != nil {
			return err
		}

		update := validation.ProfileUpdate{Name: current.Name, Email: current.Email}
		if cmd.Flags().Changed("name") {
			update.Name, _ = cmd.Flags().GetString("name")
		}
		if cmd.Flags().Changed("email") {
			update.Email, _ = cmd.Flags().GetString("email")
		}

		updated, err := svc.Profile.UpdateProfile(cmd.Context(), session, update)
		if err != nil {
			return err
		}
		fmt.Println(successStyle.Render("✓ Profile updated"))
		printProfile(updated)
		return nil
	},
}

var passwordCmd = &cobra.Command{
	Use:   "password",
	Short: "Change your password",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, session, err := signedIn(cmd)
		if err != nil {
			return err
		}
		reader := bufio.NewReader(os.Stdin)
		in := validation.PasswordChange{
			CurrentPassword: promptSecret(reader, "Current password: "),
			NewPassword:     promptSecret(reader, "New password: "),
			ConfirmPassword: promptSecret(reader, "Confirm new password: "),
		}
		if err := svc.Profile.ChangePassword(cmd.Context(), session, in); err != nil {
			return err
		}
		fmt.Println(successStyle.Render("✓ Password changed successfully"))
		return nil
	},
}

var resumeTextCmd = &cobra.Command{
	Use:   "resume-text <file>",
	Short: "Store plain resume text on your profile",
	Long:  "Reads a .txt, .pdf or .docx file and stores its text on your profile for question generation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, session, err := signedIn(cmd)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		text, err := extract.Text(extract.MimeFromName(args[0]), data)
		if err != nil {
			return err
		}
		profile, err := svc.Profile.SaveResumeText(cmd.Context(), session, text)
		if err != nil {
			return err
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("✓ Saved %d characters of resume text", len(profile.Resume))))
		return nil
	},
}

var attachCmd = &cobra.Command{
	Use:   "attach <file>",
	Short: "Attach a resume file to your profile",
	Args:  cobra.ExactArgs(1),
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

		profile, err := svc.Profile.AttachResumeFile(cmd.Context(), session, file)
		if err != nil {
			return err
		}
		fmt.Println(successStyle.Render("✓ Resume attached"))
		fmt.Printf("%s %s\n", labelStyle.Render("URL:"), valueStyle.Render(profile.ResumeFileURL))
		return nil
	},
}

// openUpload opens path as an upload candidate typed by its extension
func openUpload(path string) (service.UploadFile, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return service.UploadFile{}, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return service.UploadFile{}, nil, err
	}
	name := filepath.Base(path)
	return service.UploadFile{
		Name:        name,
		ContentType: extract.MimeFromName(name),
		Size:        info.Size(),
		Body:        f,
	}, f.Close, nil
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(showProfileCmd)
	profileCmd.AddCommand(setProfileCmd)
	profileCmd.AddCommand(passwordCmd)
	profileCmd.AddCommand(resumeTextCmd)
	profileCmd.AddCommand(attachCmd)

	setProfileCmd.Flags().String("name", "", "Display name")
	setProfileCmd.Flags().String("email", "", "Email address")
}
