package resend

// Define the structure for your JSON payload
type SubscribeRequest struct {
	Email string `json:"email"`
}
