package dto

import (
	"bytes"
	"fmt"
	"strconv"
)

// FloatString decodes a JSON value the provider serves either as a number
// or as a quoted decimal string ("0.50").
type FloatString float64

func (f *FloatString) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	v, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("error parsing %q as float: %w", data, err)
	}

	*f = FloatString(v)
	return nil
}

// IntString is the integer counterpart of FloatString.
type IntString int64

func (i *IntString) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("error parsing %q as int: %w", data, err)
	}

	*i = IntString(v)
	return nil
}

/**
  [
      {"ID": 395, "name": "Telegram", "favourite": 0}
  ]
*/

type ProviderService struct {
	ID        int64  `json:"ID"`
	Name      string `json:"name"`
	Favourite int    `json:"favourite"`
}

/**
  [
      {
          "country": 16,
          "country_id": 16,
          "name": "United Kingdom",
          "short_name": "gb",
          "price": "0.50",
          "low_price": "0.45",
          "success_rate": "93"
      }
  ]
*/

type ProviderCountryPrice struct {
	Country     int64       `json:"country"`
	CountryID   int64       `json:"country_id"`
	Name        string      `json:"name"`
	ShortName   string      `json:"short_name"`
	Price       FloatString `json:"price"`
	LowPrice    FloatString `json:"low_price"`
	SuccessRate IntString   `json:"success_rate"`
}

/**
  {
      "success": 1,
      "order_id": "ABCDEF123456",
      "service": "Telegram",
      "country": "United Kingdom",
      "cc": "44",
      "number": 447700900123,
      "phonenumber": "7700900123",
      "cost": "0.50",
      "expires_in": 599,
      "message": "",
      "pool": 1
  }
*/

type ProviderOrder struct {
	Success     int         `json:"success"`
	OrderID     string      `json:"order_id"`
	Service     string      `json:"service"`
	Country     string      `json:"country"`
	AreaCode    string      `json:"cc"`
	Number      int64       `json:"number"`
	PhoneNumber string      `json:"phonenumber"`
	Cost        FloatString `json:"cost"`
	ExpiresIn   int64       `json:"expires_in"`
	Message     string      `json:"message"`
	Pool        int         `json:"pool"`
}

/**
  {
      "status": 3,
      "sms": "429156",
      "full_sms": "Your verification code is 429156",
      "resend": 0,
      "expiration": 1719922135,
      "time_left": 402
  }
*/

type ProviderSMSCheck struct {
	Status     int    `json:"status"`
	SMS        string `json:"sms"`
	FullSMS    string `json:"full_sms"`
	Message    string `json:"message"`
	Resend     int    `json:"resend"`
	Expiration int64  `json:"expiration"`
	TimeLeft   int64  `json:"time_left"`
}

type ProviderBalance struct {
	Balance FloatString `json:"balance"`
}

/**
  {
      "success": 0,
      "errors": [
          {
              "message": "Invalid service",
              "param": "service",
              "description": "The service name passed is not valid or is misspelled."
          }
      ]
  }
*/

type ProviderErrorDetail struct {
	Message     string `json:"message"`
	Param       string `json:"param"`
	Description string `json:"description"`
}

type ProviderError struct {
	Success int                   `json:"success"`
	Errors  []ProviderErrorDetail `json:"errors"`
}
