package utils

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestIsDomainNotVerified(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{errors.New("550 5.7.1 Domain not verified"), true},
		{errors.New("554 Sender address rejected: not owned by user"), true},
		{errors.New("gomail: could not send email 1: 550 domain is not verified"), true},
		{errors.New("dial tcp: connection refused"), false},
		{errors.New("535 authentication failed"), false},
	}
	for _, tc := range cases {
		if got := isDomainNotVerified(tc.err); got != tc.want {
			t.Errorf("isDomainNotVerified(%q) = %v, want %v", tc.err, got, tc.want)
		}
	}
}

func TestContractTemplateRenders(t *testing.T) {
	details := ContractDetails{
		ClientCompany: "Acme Dental",
		TotalValue:    4500,
		Currency:      "USD",
		Number:        "CT-202601-AB12CD34",
		Services: []ServiceLine{
			{ServiceName: "Paid social management", Price: 3000},
			{ServiceName: "Landing page refresh", Price: 1500},
		},
	}

	var body bytes.Buffer
	data := struct {
		Details  ContractDetails
		Year     int
		FromName string
	}{Details: details, Year: time.Now().Year(), FromName: "AgencyDesk"}

	if err := contractTemplate.Execute(&body, data); err != nil {
		t.Fatalf("template execute: %v", err)
	}

	html := body.String()
	for _, want := range []string{"Acme Dental", "CT-202601-AB12CD34", "Paid social management"} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered contract missing %q", want)
		}
	}
}
