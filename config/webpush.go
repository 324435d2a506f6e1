package config

import (
	"log"
	"os"
)

// VAPID keys for web push; push sending is disabled when they are absent.
var (
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubject    string
)

func InitWebPush() {
	VAPIDPublicKey = os.Getenv("VAPID_PUBLIC_KEY")
	VAPIDPrivateKey = os.Getenv("VAPID_PRIVATE_KEY")
	VAPIDSubject = os.Getenv("VAPID_SUBJECT")
	if VAPIDSubject == "" {
		VAPIDSubject = "mailto:safety@localhost"
	}

	if VAPIDPublicKey == "" || VAPIDPrivateKey == "" {
		log.Println("VAPID keys not configured, web push disabled")
	}
}

// WebPushEnabled reports whether push notifications can be sent.
func WebPushEnabled() bool {
	return VAPIDPublicKey != "" && VAPIDPrivateKey != ""
}
