package auth

import (
	"fmt"
	"strings"
)

// ShowTokenCaptureGuide displays step-by-step instructions for capturing
// the Hinge bearer token and session identifiers from the mobile app.
func ShowTokenCaptureGuide() {
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println("📚 HINGE TOKEN CAPTURE GUIDE")
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()

	fmt.Println("This tool needs a bearer token and session ID from the Hinge app.")
	fmt.Println("Hinge has no web client, so the values must be intercepted from the")
	fmt.Println("mobile app's traffic with a proxy:")
	fmt.Println()

	fmt.Println("📱 STEP 1: Install an intercepting proxy")
	fmt.Println("   • HTTP Toolkit (easiest, has guided Android setup)")
	fmt.Println("   • Charles Proxy or mitmproxy also work")
	fmt.Println("   - Install the proxy's CA certificate on the phone or emulator")
	fmt.Println()

	fmt.Println("🔧 STEP 2: Route the Hinge app through the proxy")
	fmt.Println("   - Point the device's HTTP proxy at your machine")
	fmt.Println("   - Open the Hinge app and browse a few profiles")
	fmt.Println()

	fmt.Println("📡 STEP 3: Find a request to prod-api.hingeaws.net")
	fmt.Println("   - Any authenticated request will do, e.g. /rec/v2 or /user/v2")
	fmt.Println("   - Open its request headers")
	fmt.Println()

	fmt.Println("🔑 STEP 4: Copy these values:")
	fmt.Println("   • Authorization: Bearer <token>   → the bearer token (without 'Bearer ')")
	fmt.Println("   • X-Session-Id                    → the session ID")
	fmt.Println("   • X-Player-Id (if present)        → your user ID")
	fmt.Println("   • X-Device-Id / X-Install-Id      → optional, improves header fidelity")
	fmt.Println()

	fmt.Println("💡 TIPS:")
	fmt.Println("   • Copy values exactly, without quotes or trailing whitespace")
	fmt.Println("   • Tokens expire; re-capture when requests start returning 401")
	fmt.Println("   • Alternatively, run 'hingescraper auth login --sms' to authenticate")
	fmt.Println("     with your phone number directly")
	fmt.Println()

	fmt.Println("⚠️  SECURITY WARNING:")
	fmt.Println("   • The bearer token gives FULL access to your Hinge account")
	fmt.Println("   • NEVER share it with anyone")
	fmt.Println("   • Store it securely (this tool encrypts stored credentials)")
	fmt.Println()
	fmt.Println(strings.Repeat("=", 80))
	fmt.Println()
}

// ShowQuickCaptureGuide shows a condensed version for experienced users.
func ShowQuickCaptureGuide() {
	fmt.Println("\n🔑 Quick Guide: proxy the app → any prod-api.hingeaws.net request → request headers")
	fmt.Println("   Need: Authorization bearer token and X-Session-Id")
	fmt.Println("   Type 'help' for detailed instructions")
}
