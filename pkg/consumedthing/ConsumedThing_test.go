package consumedthing_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wostzone/wot-consume/pkg/consumedthing"
	"github.com/wostzone/wot-consume/pkg/dispatch"
	"github.com/wostzone/wot-consume/pkg/protocol"
	"github.com/wostzone/wot-consume/pkg/security"
	"github.com/wostzone/wot-consume/pkg/td"
)

const testThingID = "urn:test:thing1"

func tempPropertyTD() *td.ThingDescription {
	return &td.ThingDescription{
		ID: testThingID,
		Properties: map[string]*td.PropertyAffordance{
			"temp": {
				DataSchema: td.DataSchema{Type: td.DataTypeNumber},
				Forms: []td.Form{
					{Href: "http://h/temp", Op: []string{td.OpReadProperty}, ContentType: "application/json"},
				},
			},
		},
	}
}

// Basic read.
func TestReadPropertyBasic(t *testing.T) {
	logrus.Infof("--- TestReadPropertyBasic ---")

	client := &stubClient{
		ReadFn: func(r protocol.Resource) (protocol.Content, error) {
			return protocol.Content{MediaType: "application/json", Body: []byte(`{"value":42}`)}, nil
		},
	}
	servient := consumedthing.NewServient([]string{"http"}, security.NewCredentialStore())
	require.NoError(t, servient.RegisterFactory(&stubFactory{scheme: "http", client: client}))

	factory := consumedthing.NewConsumedThingFactory(servient, nil)
	ct := factory.Consume(tempPropertyTD())

	out, err := ct.ReadProperty(context.Background(), "temp", dispatch.InteractionOptions{})
	require.NoError(t, err)
	value, err := out.Value()
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"value": float64(42)}, value)
}

func TestReadPropertyMissingAffordance(t *testing.T) {
	logrus.Infof("--- TestReadPropertyMissingAffordance ---")
	servient := consumedthing.NewServient(nil, nil)
	factory := consumedthing.NewConsumedThingFactory(servient, nil)
	ct := factory.Consume(tempPropertyTD())

	_, err := ct.ReadProperty(context.Background(), "nope", dispatch.InteractionOptions{})
	require.Error(t, err)
	var missing *protocol.MissingAffordanceError
	assert.ErrorAs(t, err, &missing)
}

// Observe then auto-cleanup on stream error.
func TestObservePropertyAutoCleanupOnStreamError(t *testing.T) {
	logrus.Infof("--- TestObservePropertyAutoCleanupOnStreamError ---")

	stream := &stubStream{
		items:  []protocol.Content{{MediaType: "application/json", Body: []byte(`"a"`)}},
		endErr: assertableErr{"boom"},
	}
	client := &stubClient{
		SubscribeFn: func(protocol.Resource, protocol.ResourceType) (protocol.ContentStream, error) {
			return stream, nil
		},
	}
	servient := consumedthing.NewServient([]string{"http"}, security.NewCredentialStore())
	require.NoError(t, servient.RegisterFactory(&stubFactory{scheme: "http", client: client}))

	thingTD := &td.ThingDescription{
		ID: testThingID,
		Properties: map[string]*td.PropertyAffordance{
			"p": {
				Forms: []td.Form{
					{Href: "http://h/p/sub", Op: []string{td.OpObserveProperty}},
					{Href: "http://h/p/unsub", Op: []string{td.OpUnobserveProperty}},
				},
			},
		},
	}
	factory := consumedthing.NewConsumedThingFactory(servient, nil)
	ct := factory.Consume(thingTD)

	errCh := make(chan error, 1)
	_, err := ct.ObserveProperty(context.Background(), "p", nil, func(name string, err error) {
		errCh <- err
	}, dispatch.InteractionOptions{})
	require.NoError(t, err)

	select {
	case gotErr := <-errCh:
		assert.EqualError(t, gotErr, "boom")
	case <-time.After(time.Second):
		t.Fatal("onError was never invoked")
	}

	assert.Eventually(t, func() bool { return client.UnlinkCount() == 1 }, time.Second, 10*time.Millisecond)
}

// Duplicate subscription.
func TestSubscribeEventDuplicateFails(t *testing.T) {
	logrus.Infof("--- TestSubscribeEventDuplicateFails ---")

	client := &stubClient{
		SubscribeFn: func(protocol.Resource, protocol.ResourceType) (protocol.ContentStream, error) {
			return &stubStream{endErr: context.Canceled}, nil
		},
	}
	servient := consumedthing.NewServient([]string{"http"}, security.NewCredentialStore())
	require.NoError(t, servient.RegisterFactory(&stubFactory{scheme: "http", client: client}))

	thingTD := &td.ThingDescription{
		ID: testThingID,
		Events: map[string]*td.EventAffordance{
			"e": {Forms: []td.Form{{Href: "http://h/e", Op: []string{td.OpSubscribeEvent}}}},
		},
	}
	factory := consumedthing.NewConsumedThingFactory(servient, nil)
	ct := factory.Consume(thingTD)

	sub1, err := ct.SubscribeEvent(context.Background(), "e", nil, nil, dispatch.InteractionOptions{})
	require.NoError(t, err)
	require.True(t, sub1.Active())

	_, err = ct.SubscribeEvent(context.Background(), "e", nil, nil, dispatch.InteractionOptions{})
	require.Error(t, err)
	var dup *protocol.DuplicateSubscriptionError
	assert.ErrorAs(t, err, &dup)

	// the first subscription must be unaffected
	assert.True(t, sub1.Active())
	assert.Equal(t, 0, client.UnlinkCount())

	sub1.Stop()
	assert.False(t, sub1.Active())
	assert.Equal(t, 1, client.UnlinkCount())
	sub1.Stop() // idempotent
	assert.Equal(t, 1, client.UnlinkCount())
}

func TestWritePropertyRejectsStreamInput(t *testing.T) {
	logrus.Infof("--- TestWritePropertyRejectsStreamInput ---")
	servient := consumedthing.NewServient(nil, nil)
	factory := consumedthing.NewConsumedThingFactory(servient, nil)
	ct := factory.Consume(tempPropertyTD())

	err := ct.WriteProperty(context.Background(), "temp", consumedthing.NewStreamInput(nil), dispatch.InteractionOptions{})
	require.Error(t, err)
	var unsupported *protocol.UnsupportedInputError
	assert.ErrorAs(t, err, &unsupported)
}

func actionTD() *td.ThingDescription {
	return &td.ThingDescription{
		ID: testThingID,
		Actions: map[string]*td.ActionAffordance{
			"reboot": {
				Input:  &td.DataSchema{Type: td.DataTypeObject},
				Output: &td.DataSchema{Type: td.DataTypeObject},
				Forms:  []td.Form{{Href: "http://h/reboot", Op: []string{td.OpInvokeAction}, ContentType: "application/json"}},
			},
		},
	}
}

func eventTD() *td.ThingDescription {
	return &td.ThingDescription{
		ID: testThingID,
		Events: map[string]*td.EventAffordance{
			"e": {
				Data:  &td.DataSchema{Type: td.DataTypeNumber},
				Forms: []td.Form{{Href: "http://h/e", Op: []string{td.OpSubscribeEvent}}},
			},
		},
	}
}

func multiPropertyTD() *td.ThingDescription {
	return &td.ThingDescription{
		ID: testThingID,
		Properties: map[string]*td.PropertyAffordance{
			"temp": {
				DataSchema: td.DataSchema{Type: td.DataTypeNumber},
				Forms:      []td.Form{{Href: "http://h/temp", Op: []string{td.OpReadProperty}, ContentType: "application/json"}},
			},
			"humidity": {
				DataSchema: td.DataSchema{Type: td.DataTypeNumber},
				Forms:      []td.Form{{Href: "http://h/humidity", Op: []string{td.OpReadProperty}, ContentType: "application/json"}},
			},
		},
	}
}

func TestInvokeActionBasic(t *testing.T) {
	logrus.Infof("--- TestInvokeActionBasic ---")

	client := &stubClient{
		InvokeFn: func(r protocol.Resource, content *protocol.Content) (protocol.Content, error) {
			return protocol.Content{MediaType: "application/json", Body: []byte(`{"ok":true}`)}, nil
		},
	}
	servient := consumedthing.NewServient([]string{"http"}, security.NewCredentialStore())
	require.NoError(t, servient.RegisterFactory(&stubFactory{scheme: "http", client: client}))

	factory := consumedthing.NewConsumedThingFactory(servient, nil)
	ct := factory.Consume(actionTD())

	input := consumedthing.NewValueInput(map[string]interface{}{"delay": float64(5)})
	out, err := ct.InvokeAction(context.Background(), "reboot", &input, dispatch.InteractionOptions{})
	require.NoError(t, err)
	value, err := out.Value()
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"ok": true}, value)
}

func TestInvokeActionMissingAffordance(t *testing.T) {
	logrus.Infof("--- TestInvokeActionMissingAffordance ---")
	servient := consumedthing.NewServient(nil, nil)
	factory := consumedthing.NewConsumedThingFactory(servient, nil)
	ct := factory.Consume(actionTD())

	_, err := ct.InvokeAction(context.Background(), "nope", nil, dispatch.InteractionOptions{})
	require.Error(t, err)
	var missing *protocol.MissingAffordanceError
	assert.ErrorAs(t, err, &missing)
}

func TestConsumeEventBasic(t *testing.T) {
	logrus.Infof("--- TestConsumeEventBasic ---")

	stream := &stubStream{
		items:  []protocol.Content{{MediaType: "application/json", Body: []byte(`7`)}},
		endErr: context.Canceled,
	}
	client := &stubClient{
		SubscribeFn: func(protocol.Resource, protocol.ResourceType) (protocol.ContentStream, error) {
			return stream, nil
		},
	}
	servient := consumedthing.NewServient([]string{"http"}, security.NewCredentialStore())
	require.NoError(t, servient.RegisterFactory(&stubFactory{scheme: "http", client: client}))

	factory := consumedthing.NewConsumedThingFactory(servient, nil)
	ct := factory.Consume(eventTD())

	es, err := ct.ConsumeEvent(context.Background(), "e", dispatch.InteractionOptions{})
	require.NoError(t, err)
	defer es.Close()

	out, err := es.Next(context.Background())
	require.NoError(t, err)
	value, err := out.Value()
	require.NoError(t, err)
	assert.Equal(t, float64(7), value)

	_, err = es.Next(context.Background())
	require.Error(t, err)
}

func TestReadMultiplePropertiesBasic(t *testing.T) {
	logrus.Infof("--- TestReadMultiplePropertiesBasic ---")

	client := &stubClient{
		ReadFn: func(r protocol.Resource) (protocol.Content, error) {
			switch r.Name {
			case "temp":
				return protocol.Content{MediaType: "application/json", Body: []byte(`21`)}, nil
			case "humidity":
				return protocol.Content{MediaType: "application/json", Body: []byte(`55`)}, nil
			}
			return protocol.Content{}, assertableErr{"unknown property " + r.Name}
		},
	}
	servient := consumedthing.NewServient([]string{"http"}, security.NewCredentialStore())
	require.NoError(t, servient.RegisterFactory(&stubFactory{scheme: "http", client: client}))

	factory := consumedthing.NewConsumedThingFactory(servient, nil)
	ct := factory.Consume(multiPropertyTD())

	out, err := ct.ReadMultipleProperties(context.Background(), []string{"temp", "humidity"}, dispatch.InteractionOptions{})
	require.NoError(t, err)
	require.Len(t, out, 2)

	tempValue, err := out["temp"].Value()
	require.NoError(t, err)
	assert.Equal(t, float64(21), tempValue)

	humidityValue, err := out["humidity"].Value()
	require.NoError(t, err)
	assert.Equal(t, float64(55), humidityValue)
}

func TestReadMultiplePropertiesPartialFailureFailsWhole(t *testing.T) {
	logrus.Infof("--- TestReadMultiplePropertiesPartialFailureFailsWhole ---")

	client := &stubClient{
		ReadFn: func(r protocol.Resource) (protocol.Content, error) {
			if r.Name == "humidity" {
				return protocol.Content{}, assertableErr{"sensor offline"}
			}
			return protocol.Content{MediaType: "application/json", Body: []byte(`21`)}, nil
		},
	}
	servient := consumedthing.NewServient([]string{"http"}, security.NewCredentialStore())
	require.NoError(t, servient.RegisterFactory(&stubFactory{scheme: "http", client: client}))

	factory := consumedthing.NewConsumedThingFactory(servient, nil)
	ct := factory.Consume(multiPropertyTD())

	out, err := ct.ReadMultipleProperties(context.Background(), []string{"temp", "humidity"}, dispatch.InteractionOptions{})
	require.Error(t, err)
	assert.Nil(t, out)
}

func TestReadAllPropertiesBasic(t *testing.T) {
	logrus.Infof("--- TestReadAllPropertiesBasic ---")

	client := &stubClient{
		ReadFn: func(r protocol.Resource) (protocol.Content, error) {
			switch r.Name {
			case "temp":
				return protocol.Content{MediaType: "application/json", Body: []byte(`21`)}, nil
			case "humidity":
				return protocol.Content{MediaType: "application/json", Body: []byte(`55`)}, nil
			}
			return protocol.Content{}, assertableErr{"unknown property " + r.Name}
		},
	}
	servient := consumedthing.NewServient([]string{"http"}, security.NewCredentialStore())
	require.NoError(t, servient.RegisterFactory(&stubFactory{scheme: "http", client: client}))

	factory := consumedthing.NewConsumedThingFactory(servient, nil)
	ct := factory.Consume(multiPropertyTD())

	out, err := ct.ReadAllProperties(context.Background(), dispatch.InteractionOptions{})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Contains(t, out, "temp")
	assert.Contains(t, out, "humidity")
}

func TestWriteMultiplePropertiesBasic(t *testing.T) {
	logrus.Infof("--- TestWriteMultiplePropertiesBasic ---")

	var mu sync.Mutex
	written := map[string][]byte{}
	client := &stubClient{
		WriteFn: func(r protocol.Resource, content protocol.Content) error {
			mu.Lock()
			defer mu.Unlock()
			written[r.Name] = content.Body
			return nil
		},
	}
	servient := consumedthing.NewServient([]string{"http"}, security.NewCredentialStore())
	require.NoError(t, servient.RegisterFactory(&stubFactory{scheme: "http", client: client}))

	factory := consumedthing.NewConsumedThingFactory(servient, nil)
	ct := factory.Consume(multiPropertyTD())

	values := map[string]consumedthing.InteractionInput{
		"temp":     consumedthing.NewValueInput(float64(21)),
		"humidity": consumedthing.NewValueInput(float64(55)),
	}
	err := ct.WriteMultipleProperties(context.Background(), values, dispatch.InteractionOptions{})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []byte("21"), written["temp"])
	assert.Equal(t, []byte("55"), written["humidity"])
}

func TestWriteMultiplePropertiesPartialFailureFailsWhole(t *testing.T) {
	logrus.Infof("--- TestWriteMultiplePropertiesPartialFailureFailsWhole ---")

	client := &stubClient{
		WriteFn: func(r protocol.Resource, content protocol.Content) error {
			if r.Name == "humidity" {
				return assertableErr{"actuator jammed"}
			}
			return nil
		},
	}
	servient := consumedthing.NewServient([]string{"http"}, security.NewCredentialStore())
	require.NoError(t, servient.RegisterFactory(&stubFactory{scheme: "http", client: client}))

	factory := consumedthing.NewConsumedThingFactory(servient, nil)
	ct := factory.Consume(multiPropertyTD())

	values := map[string]consumedthing.InteractionInput{
		"temp":     consumedthing.NewValueInput(float64(21)),
		"humidity": consumedthing.NewValueInput(float64(55)),
	}
	err := ct.WriteMultipleProperties(context.Background(), values, dispatch.InteractionOptions{})
	require.Error(t, err)
}

// assertableErr lets tests compare error messages without importing errors.New everywhere.
type assertableErr struct{ msg string }

func (e assertableErr) Error() string { return e.msg }
