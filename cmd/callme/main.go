// Command callme places a single demo call to the configured callee and
// connects it to the voice agent's /voice webhook.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/bfsi-ai/voice-agent/internal/config"
	"github.com/bfsi-ai/voice-agent/internal/twilio"
	"github.com/bfsi-ai/voice-agent/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	var (
		to      = flag.String("to", "", "callee phone number (defaults to DEMO_CALLEE_NUMBER)")
		baseURL = flag.String("base-url", "", "public base URL of the voice agent (defaults to PUBLIC_BASE_URL)")
		status  = flag.String("status", "", "fetch status of an existing call SID instead of dialing")
	)
	flag.Parse()

	cfg := config.Load()
	logger := logging.NewText(cfg.LogLevel)

	client, err := twilio.NewClient(twilio.ClientConfig{
		AccountSID: cfg.TwilioAccountSID,
		AuthToken:  cfg.TwilioAuthToken,
		Logger:     logger,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if *status != "" {
		call, err := client.GetCall(ctx, *status)
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		fmt.Printf("call %s: %s (duration %ss)\n", call.SID, call.Status, call.Duration)
		return
	}

	callee := *to
	if callee == "" {
		callee = cfg.DemoCalleeNumber
	}
	public := *baseURL
	if public == "" {
		public = cfg.PublicBaseURL
	}
	if callee == "" || cfg.TwilioFromNumber == "" || public == "" {
		fmt.Fprintln(os.Stderr, "error: callee number, TWILIO_PHONE_NUMBER, and public base URL are all required")
		os.Exit(1)
	}

	call, err := client.CreateCall(ctx, twilio.CallRequest{
		To:                callee,
		From:              cfg.TwilioFromNumber,
		VoiceURL:          public + "/voice",
		StatusCallbackURL: public + "/call-status",
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	fmt.Printf("call initiated: %s (%s)\n", call.SID, call.Status)
}
