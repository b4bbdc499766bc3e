package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
)

const fast2smsURL = "https://www.fast2sms.com/dev/bulkV2"

// SMSService delivers one-time codes via Fast2SMS. Without an API key it
// runs in mock mode: the code is logged and delivery reports success.
type SMSService struct {
	apiKey string
}

// NewSMSService creates an SMSService.
func NewSMSService(apiKey string) *SMSService {
	return &SMSService{apiKey: apiKey}
}

type fast2smsRequest struct {
	Route           string `json:"route"`
	VariablesValues string `json:"variables_values"`
	Numbers         string `json:"numbers"`
}

type fast2smsResponse struct {
	Return  bool   `json:"return"`
	Message string `json:"message"`
}

// SendOTP sends a one-time code to the given phone number.
func (s *SMSService) SendOTP(phone, code string) error {
	if s.apiKey == "" {
		log.Printf("[SMS] API key not configured, mock OTP %s for %s", code, phone)
		return nil
	}

	payload := fast2smsRequest{
		Route:           "otp",
		VariablesValues: code,
		Numbers:         phone,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, fast2smsURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("authorization", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Printf("[SMS] Failed to send OTP: %v", err)
		return err
	}
	defer resp.Body.Close()

	var result fast2smsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return err
	}

	if !result.Return {
		log.Printf("[SMS] Provider rejected OTP send: %s", result.Message)
		return fmt.Errorf("fast2sms rejected send: %s", result.Message)
	}

	return nil
}
