package services

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/Re-Bottle/bottle-collection-system-backend/config"
	"github.com/Re-Bottle/bottle-collection-system-backend/utils"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

// MQTT topics of the device control plane
const (
	// Retained thing registrations, one subtopic per device
	TopicThingRegistry = "rebottle/things"

	// Device status broadcasts
	TopicDeviceStatus = "rebottle/device/status"
)

// CertificateBundle is the identity material issued to a provisioned device
type CertificateBundle struct {
	CertificateID  string `json:"certificate_id"`
	CertificatePEM string `json:"certificate_pem"`
	PrivateKeyPEM  string `json:"private_key_pem"`
}

// InterfaceIoTService defines the device identity provider interface
type InterfaceIoTService interface {
	Connect() error
	Disconnect()
	CreateThingWithCertificate(thingName string) (*CertificateBundle, error)
	PublishDeviceStatus(deviceID string, status map[string]interface{}) error
}

// IoTService issues device certificates and announces registered things on
// the MQTT control plane
type IoTService struct {
	Config *config.Config
	Client mqtt.Client

	IsConnected    bool
	connectedMutex sync.RWMutex
	PublishMutex   sync.Mutex
}

// thingMessage is the retained registration announcement for a thing
type thingMessage struct {
	MessageID     string `json:"message_id"`
	ThingName     string `json:"thing_name"`
	CertificateID string `json:"certificate_id"`
	Timestamp     int64  `json:"timestamp"`
}

// NewIoTService creates a new IoT service
func NewIoTService(cfg *config.Config) InterfaceIoTService {
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.MQTTBrokerURL).
		SetClientID(cfg.MQTTClientID).
		SetAutoReconnect(true).
		SetConnectTimeout(5 * time.Second)

	if cfg.MQTTUsername != "" {
		opts.SetUsername(cfg.MQTTUsername)
		opts.SetPassword(cfg.MQTTPassword)
	}

	return &IoTService{
		Config: cfg,
		Client: mqtt.NewClient(opts),
	}
}

// Connect connects to the MQTT broker
func (s *IoTService) Connect() error {
	token := s.Client.Connect()
	if !token.WaitTimeout(10*time.Second) || token.Error() != nil {
		return fmt.Errorf("failed to connect to MQTT broker: %v", token.Error())
	}

	s.connectedMutex.Lock()
	s.IsConnected = true
	s.connectedMutex.Unlock()

	return nil
}

// Disconnect disconnects from the MQTT broker
func (s *IoTService) Disconnect() {
	s.connectedMutex.Lock()
	defer s.connectedMutex.Unlock()

	if s.IsConnected {
		s.Client.Disconnect(250)
		s.IsConnected = false
	}
}

func (s *IoTService) connected() bool {
	s.connectedMutex.RLock()
	defer s.connectedMutex.RUnlock()
	return s.IsConnected
}

// CreateThingWithCertificate issues a certificate/key bundle for the device
// and announces the registered thing on the control plane.
//
// Certificate generation never partially succeeds: the bundle is built in
// memory and only announced once complete, so callers may treat a returned
// error as "nothing was issued".
func (s *IoTService) CreateThingWithCertificate(thingName string) (*CertificateBundle, error) {
	privateKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate device key: %w", err)
	}

	serial := big.NewInt(int64(utils.RandomInt32()))
	serial.Abs(serial)

	validity := time.Duration(s.Config.CertValidityDays) * 24 * time.Hour
	template := x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			CommonName:   thingName,
			Organization: []string{"Re-Bottle"},
		},
		NotBefore:             time.Now(),
		NotAfter:              time.Now().Add(validity),
		KeyUsage:              x509.KeyUsageDigitalSignature,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
		BasicConstraintsValid: true,
	}

	certDER, err := x509.CreateCertificate(rand.Reader, &template, &template, &privateKey.PublicKey, privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create device certificate: %w", err)
	}

	keyDER, err := x509.MarshalECPrivateKey(privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal device key: %w", err)
	}

	bundle := &CertificateBundle{
		CertificateID:  uuid.NewString(),
		CertificatePEM: string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certDER})),
		PrivateKeyPEM:  string(pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})),
	}

	// Best effort: the bundle is valid even if the broker is unreachable
	if err := s.announceThing(thingName, bundle.CertificateID); err != nil {
		config.Warning("failed to announce thing %s: %v", thingName, err)
	}

	return bundle, nil
}

// announceThing publishes a retained registration message for the thing
func (s *IoTService) announceThing(thingName, certificateID string) error {
	if !s.connected() {
		return fmt.Errorf("MQTT client not connected")
	}

	payload, err := json.Marshal(thingMessage{
		MessageID:     uuid.NewString(),
		ThingName:     thingName,
		CertificateID: certificateID,
		Timestamp:     time.Now().UnixMilli(),
	})
	if err != nil {
		return err
	}

	s.PublishMutex.Lock()
	defer s.PublishMutex.Unlock()

	token := s.Client.Publish(TopicThingRegistry+"/"+thingName, 1, true, payload)
	if !token.WaitTimeout(5*time.Second) || token.Error() != nil {
		return fmt.Errorf("failed to publish thing registration: %v", token.Error())
	}
	return nil
}

// PublishDeviceStatus broadcasts a device status message
func (s *IoTService) PublishDeviceStatus(deviceID string, status map[string]interface{}) error {
	if !s.connected() {
		return fmt.Errorf("MQTT client not connected")
	}

	message := map[string]interface{}{
		"message_id": uuid.NewString(),
		"device_id":  deviceID,
		"status":     status,
		"timestamp":  time.Now().UnixMilli(),
	}

	payload, err := json.Marshal(message)
	if err != nil {
		return err
	}

	s.PublishMutex.Lock()
	defer s.PublishMutex.Unlock()

	token := s.Client.Publish(TopicDeviceStatus, 0, false, payload)
	if !token.WaitTimeout(5*time.Second) || token.Error() != nil {
		return fmt.Errorf("failed to publish device status: %v", token.Error())
	}
	return nil
}
