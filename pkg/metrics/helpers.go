package metrics

import (
	"time"
)

type RedisOperation string

const (
	RedisOpGet RedisOperation = "get"
	RedisOpSet RedisOperation = "set"
	RedisOpDel RedisOperation = "del"
)

// RedisCall замеряет одну команду Redis
//
//	call := metrics.StartRedisCall(service, metrics.RedisOpGet)
//	err := client.Get(...).Err()
//	call.Finish(err)
type RedisCall struct {
	service string
	op      RedisOperation
	start   time.Time
}

func StartRedisCall(service string, op RedisOperation) RedisCall {
	return RedisCall{service: service, op: op, start: time.Now()}
}

// Finish записывает длительность, ненулевая ошибка увеличивает redis_errors_total
// Промах кеша (redis.Nil) ошибкой не является, его нужно передавать как nil
func (c RedisCall) Finish(err error) {
	RedisOperationDuration.WithLabelValues(c.service, string(c.op)).Observe(time.Since(c.start).Seconds())
	if err != nil {
		RedisErrors.WithLabelValues(c.service, string(c.op)).Inc()
	}
}

func RecordCacheHit(service, keyPrefix string) {
	RedisCacheHits.WithLabelValues(service, keyPrefix).Inc()
}

func RecordCacheMiss(service, keyPrefix string) {
	RedisCacheMisses.WithLabelValues(service, keyPrefix).Inc()
}

// ObserveKafkaProduce учитывает отправку одного сообщения
// Длительность пишется только для успешных отправок
func ObserveKafkaProduce(service, topic string, start time.Time, err error) {
	if err != nil {
		KafkaErrors.WithLabelValues(service, topic, "produce").Inc()
		return
	}
	KafkaMessagesProduced.WithLabelValues(service, topic).Inc()
	KafkaProduceDuration.WithLabelValues(service, topic).Observe(time.Since(start).Seconds())
}
