// Package push implements the FCM multicast transport behind the
// services.PushTransport interface.
package push

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/errorutils"
	"firebase.google.com/go/v4/messaging"
	"github.com/adilzhn/remindly/internal/services"
	"github.com/adilzhn/remindly/pkg/logger"
	"google.golang.org/api/option"
)

// FCMTransport sends multicast pushes through Firebase Cloud Messaging.
type FCMTransport struct {
	client *messaging.Client
}

// NewFCMTransport builds the messaging client from a service-account
// credentials file.
func NewFCMTransport(ctx context.Context, credentialsFile string) (*FCMTransport, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to init firebase app: %v", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to init messaging client: %v", err)
	}
	return &FCMTransport{client: client}, nil
}

// SendMulticast delivers one push to all of a user's tokens and maps per-token
// SDK errors onto the engine's error codes. A returned error means the whole
// call failed; individual token failures land in the result.
func (t *FCMTransport) SendMulticast(ctx context.Context, msg services.MulticastMessage) (*services.MulticastResult, error) {
	message := &messaging.MulticastMessage{
		Tokens: msg.Tokens,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
	}

	response, err := t.client.SendEachForMulticast(ctx, message)
	if err != nil {
		logger.Log.WithError(err).Error("FCM multicast call failed")
		return nil, fmt.Errorf("fcm multicast: %v", err)
	}

	result := &services.MulticastResult{
		SuccessCount: response.SuccessCount,
		FailureCount: response.FailureCount,
		Results:      make([]services.SendResult, len(response.Responses)),
	}
	for i, r := range response.Responses {
		if r.Success {
			result.Results[i] = services.SendResult{Success: true}
			continue
		}
		result.Results[i] = services.SendResult{ErrorCode: classify(r.Error)}
	}
	return result, nil
}

// classify maps an FCM per-token error to the transport-neutral code the
// orchestrator's token pruning understands.
func classify(err error) string {
	switch {
	case err == nil:
		return ""
	case messaging.IsUnregistered(err):
		return services.ErrCodeUnregistered
	case errorutils.IsInvalidArgument(err):
		return services.ErrCodeInvalidArgument
	case errorutils.IsUnavailable(err):
		return services.ErrCodeUnavailable
	default:
		return services.ErrCodeInternal
	}
}
