package symbols

import (
	"context"
	"testing"

	"mercator-hq/vesta/pkg/config"
	"mercator-hq/vesta/pkg/engine"
	"mercator-hq/vesta/pkg/message"
	"mercator-hq/vesta/pkg/symbol"
)

func scan(t *testing.T, raw string) map[string]symbol.Outcome {
	t.Helper()

	eng, err := engine.New(engine.Options{
		Build:  Default(),
		Config: config.NewDefault(),
	})
	if err != nil {
		t.Fatalf("Engine build failed: %v", err)
	}

	msg, err := message.FromRaw("Q-TEST", []byte(raw))
	if err != nil {
		t.Fatalf("Message parse failed: %v", err)
	}

	v, err := eng.Scan(context.Background(), msg, engine.ScanOptions{})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	out := make(map[string]symbol.Outcome, len(v.Results))
	for _, r := range v.Results {
		out[r.Symbol] = r.Outcome
	}
	return out
}

func TestDefault_CleanMessage(t *testing.T) {
	outcomes := scan(t, "Subject: quarterly report\r\n"+
		"Message-Id: <abc@example.com>\r\n"+
		"\r\n"+
		"See the attached figures.\r\n")

	if outcomes["MISSING_MESSAGE_ID"] != symbol.OutcomeNoMatch {
		t.Errorf("MISSING_MESSAGE_ID = %s", outcomes["MISSING_MESSAGE_ID"])
	}
	if outcomes["SUBJECT_ALL_CAPS"] != symbol.OutcomeNoMatch {
		t.Errorf("SUBJECT_ALL_CAPS = %s", outcomes["SUBJECT_ALL_CAPS"])
	}
	if outcomes["HAS_URLS"] != symbol.OutcomeNoMatch {
		t.Errorf("HAS_URLS = %s", outcomes["HAS_URLS"])
	}
}

func TestDefault_SuspiciousMessage(t *testing.T) {
	outcomes := scan(t, "Subject: ACT NOW LIMITED OFFER\r\n"+
		"\r\n"+
		"Click https://example.invalid/win now!\r\n")

	if outcomes["MISSING_MESSAGE_ID"] != symbol.OutcomeFired {
		t.Errorf("MISSING_MESSAGE_ID = %s", outcomes["MISSING_MESSAGE_ID"])
	}
	if outcomes["SUBJECT_ALL_CAPS"] != symbol.OutcomeFired {
		t.Errorf("SUBJECT_ALL_CAPS = %s", outcomes["SUBJECT_ALL_CAPS"])
	}
	if outcomes["HAS_URLS"] != symbol.OutcomeFired {
		t.Errorf("HAS_URLS = %s", outcomes["HAS_URLS"])
	}
	if outcomes["URL_REPUTATION"] != symbol.OutcomeFired {
		t.Errorf("URL_REPUTATION = %s", outcomes["URL_REPUTATION"])
	}
}

func TestDefault_MailingList(t *testing.T) {
	outcomes := scan(t, "Subject: weekly digest\r\n"+
		"Message-Id: <digest@example.com>\r\n"+
		"List-Unsubscribe: <mailto:leave@example.com>\r\n"+
		"\r\n"+
		"This week's links.\r\n")

	if outcomes["MAILING_LIST"] != symbol.OutcomeFired {
		t.Errorf("MAILING_LIST = %s", outcomes["MAILING_LIST"])
	}
}
