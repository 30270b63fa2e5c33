package admin

import (
	"errors"
	"log"
	"strings"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"github.com/gin-gonic/gin"

	access "github.com/ccmha/rink-sync/pkg/accessCode"
	resend "github.com/ccmha/rink-sync/repos/resend"
)

var ErrInvalidEmail = errors.New("invalid email address")

type AdminService struct {
	firestoreClient *firestore.Client
	firebaseApp     *firebase.App
	resendService   *resend.Service
}

func NewAdminService(firestoreClient *firestore.Client, firebaseApp *firebase.App, resendService *resend.Service) *AdminService {
	return &AdminService{
		firestoreClient: firestoreClient,
		firebaseApp:     firebaseApp,
		resendService:   resendService,
	}
}

// RequestSubscription mails a confirm link to the address. Nothing is stored
// until the link is followed.
func (s *AdminService) RequestSubscription(c *gin.Context, request resend.SubscribeRequest) error {
	email := strings.TrimSpace(request.Email)
	if email == "" || !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}

	accessCode := access.GenerateCode(email)

	err := s.resendService.SendConfirmation(c, email, accessCode)
	if err != nil {
		log.Printf("Failed to send confirmation mail: %v\n", err)
		return err
	}
	return nil
}

// ConfirmSubscription adds the address carried by the access code to the
// recipient list.
func (s *AdminService) ConfirmSubscription(c *gin.Context, accessCode string) (string, error) {
	email, _, err := access.Decode(accessCode)
	if err != nil {
		log.Printf("Failed to decode access code: %v\n", err)
		return "", err
	}

	if err := s.resendService.AddSubscriber(c, email); err != nil {
		return "", err
	}
	return email, nil
}

// Unsubscribe removes the address carried by the access code.
func (s *AdminService) Unsubscribe(c *gin.Context, accessCode string) (string, error) {
	email, _, err := access.Decode(accessCode)
	if err != nil {
		log.Printf("Failed to decode access code: %v\n", err)
		return "", err
	}

	if err := s.resendService.RemoveSubscriber(c, email); err != nil {
		return "", err
	}
	return email, nil
}

func (s *AdminService) ListSubscribers(c *gin.Context) ([]string, error) {
	return s.resendService.ListSubscribers(c)
}
