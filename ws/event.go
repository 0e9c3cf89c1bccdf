// Package ws, WebSocket bağlantı yönetimi ve gerçek zamanlı event dağıtımını sağlar.
//
// Mimari:
// - Hub: Tüm bağlantıları yöneten merkezi yapı (Observer pattern)
// - Client: Her WebSocket bağlantısını temsil eder
// - Event: Client-server arası iletilen mesaj formatı
//
// Event akışı:
// 1. Kullanıcı yorum yazar → HTTP POST → Service → DB kayıt
// 2. Service, Hub'ın Publish metodunu çağırır
// 3. Hub, event'i tüm bağlı client'lara iletir
// 4. Her client'ın WritePump'ı event'i WebSocket'e yazar
// 5. Frontend event'i alır ve açık olan yazının yorum ağacını tazeler
package ws

// Event, WebSocket üzerinden iletilen bir mesajı temsil eder.
//
// Op (operation): Event türü — "comment_create", "heartbeat" vb.
// Data: Event'e özgü payload — yorum objesi, yazı id'si vb.
// Seq (sequence number): Her outbound event'e verilen artan sayı.
//
//	Frontend eksik event tespit etmek için seq'i takip eder.
type Event struct {
	Op   string `json:"op"`
	Data any    `json:"d,omitempty"`
	Seq  int64  `json:"seq,omitempty"`
}

// Client → Server operasyonları
const (
	OpHeartbeat = "heartbeat" // Client her 30sn'de gönderir — "hâlâ bağlıyım" sinyali
)

// Server → Client operasyonları
const (
	OpHeartbeatAck = "heartbeat_ack" // Heartbeat'e yanıt — "seni duydum"

	OpPostCreate = "post_create" // Yeni yazı yayınlandı
	OpPostDelete = "post_delete" // Yazı silindi

	OpCommentCreate = "comment_create" // Yeni yorum eklendi
	OpCommentDelete = "comment_delete" // Yorum silindi
)
