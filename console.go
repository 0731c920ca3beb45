package main

import (
	"context"
	"fmt"
	"grannysporch/discord"
	"grannysporch/models"
	"grannysporch/preview"
	"grannysporch/storage"
	"grannysporch/ui"
	"io"
	"os"
	"os/signal"
	"strings"
)

// runConsole handles command-line mode and returns the process exit code
func runConsole(args []string, store *storage.Manager, sender discord.Sender, out io.Writer) int {
	if len(args) == 0 {
		showUsage(out)
		return 0
	}

	switch args[0] {
	case "-send", "--send":
		if len(args) < 2 {
			fmt.Fprintln(out, "Error: story text required (use \"\" to send only an image)")
			showUsage(out)
			return 2
		}
		imagePath := ""
		if len(args) >= 4 && (args[2] == "-image" || args[2] == "--image") {
			imagePath = args[3]
			if !preview.IsImagePath(imagePath) {
				fmt.Fprintf(out, "Error: %s is not a supported image (%s)\n", imagePath, strings.Join(preview.Extensions, ", "))
				return 2
			}
		} else if len(args) > 2 {
			fmt.Fprintf(out, "Unknown option: %s\n", args[2])
			showUsage(out)
			return 2
		}
		return sendFromConsole(store, sender, args[1], imagePath, out)
	case "-set-webhook", "--set-webhook":
		if len(args) < 2 {
			fmt.Fprintln(out, "Error: webhook URL required")
			showUsage(out)
			return 2
		}
		return setWebhook(store, args[1], out)
	case "-settings", "--settings":
		showSettings(store, out)
		return 0
	case "-help", "--help", "-h", "--h":
		showUsage(out)
		return 0
	default:
		fmt.Fprintf(out, "Unknown option: %s\n", args[0])
		showUsage(out)
		return 2
	}
}

// sendFromConsole posts story and the optional image to the stored webhook
func sendFromConsole(store *storage.Manager, sender discord.Sender, story, imagePath string, out io.Writer) int {
	settings := store.LoadSettings()
	if imagePath != "" {
		settings.RememberImage(imagePath)
		defer store.SaveSettings(settings)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	req := models.NewSendRequest(settings.WebhookURL, story, imagePath)
	fmt.Fprintln(out, ui.StatusSending)
	err := sender.Send(ctx, req)

	text, isError := ui.StatusText(err)
	fmt.Fprintln(out, text)
	if isError {
		return 1
	}
	return 0
}

// setWebhook stores the webhook URL for later sends
func setWebhook(store *storage.Manager, url string, out io.Writer) int {
	settings := store.LoadSettings()
	settings.SetWebhookURL(url)
	if settings.WebhookURL == "" {
		fmt.Fprintln(out, ui.StatusMissingWebhook)
		return 1
	}
	store.SaveSettings(settings)
	fmt.Fprintf(out, "Webhook saved to %s\n", store.SettingsPath())
	return 0
}

// showSettings prints where settings live and what they contain
func showSettings(store *storage.Manager, out io.Writer) {
	settings := store.LoadSettings()
	fmt.Fprintf(out, "Settings file:        %s\n", store.SettingsPath())
	fmt.Fprintf(out, "Webhook URL:          %s\n", orNone(settings.WebhookURL))
	fmt.Fprintf(out, "Last image directory: %s\n", orNone(settings.LastImageDirectory))
}

func orNone(value string) string {
	if value == "" {
		return "(not set)"
	}
	return value
}

// showUsage displays command-line usage information
func showUsage(out io.Writer) {
	fmt.Fprintln(out, "Granny's Porch - Command Line Usage")
	fmt.Fprintln(out, "===================================")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "GUI Mode (default):")
	fmt.Fprintln(out, "  grannysporch")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Command Line Options:")
	fmt.Fprintln(out, "  -send <story> [-image <path>]   Send a story and/or image to the saved webhook")
	fmt.Fprintln(out, "  -set-webhook <url>              Save the Discord webhook URL")
	fmt.Fprintln(out, "  -settings                       Show the saved settings")
	fmt.Fprintln(out, "  -help                           Show this help message")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Examples:")
	fmt.Fprintln(out, "  grannysporch -set-webhook https://discord.com/api/webhooks/...")
	fmt.Fprintln(out, "  grannysporch -send \"The tomatoes came in!\"")
	fmt.Fprintln(out, "  grannysporch -send \"\" -image ~/Pictures/porch.jpg")
}
