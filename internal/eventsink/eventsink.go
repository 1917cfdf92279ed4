// Package eventsink is the optional SNS event relay (§D.4): when configured
// with a topic ARN it republishes bug-severity STATUS_GENERAL and LogErr
// events to an SNS topic, independent of the controller-facing fan-out.
package eventsink

import (
	"encoding/json"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/sns"
)

// Sink is a no-op zero value; RelayBug is a no-op until Configure succeeds, so
// daemons that never set a topic ARN pay no AWS SDK cost.
type Sink struct {
	topicARN string
	sns      *sns.SNS
}

func New() *Sink {
	return &Sink{}
}

// Configure wires the sink to an SNS topic in the given region. Credentials
// are resolved through the SDK's normal provider chain (environment,
// shared config, instance role); this implementation does not manage them.
func (s *Sink) Configure(region, topicARN string) error {
	sess, err := session.NewSession(aws.NewConfig().WithRegion(region))
	if err != nil {
		return err
	}
	s.sns = sns.New(sess)
	s.topicARN = topicARN
	return nil
}

func (s *Sink) Enabled() bool {
	return s.sns != nil && s.topicARN != ""
}

// RelayBug publishes a STATUS_GENERAL bug event or a LogErr line to the
// configured topic; errors are the caller's to log, never to surface back
// to a control connection.
func (s *Sink) RelayBug(keyword string, fields map[string]string) error {
	if !s.Enabled() {
		return nil
	}
	body, err := json.Marshal(map[string]interface{}{
		"keyword": keyword,
		"fields":  fields,
	})
	if err != nil {
		return err
	}
	_, err = s.sns.Publish(&sns.PublishInput{
		Message:  aws.String(string(body)),
		TopicArn: aws.String(s.topicARN),
	})
	return err
}
