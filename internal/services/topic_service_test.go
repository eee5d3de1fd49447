package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func topicColumns() []string {
	return []string{"id", "user_id", "name", "created_at"}
}

func TestGetOrCreateTopicRejectsEmptyName(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewTopicService(db)

	// 去掉空白后是空的直接拒绝，不查库
	for _, name := range []string{"", "   ", "\t\n"} {
		_, _, err := svc.GetOrCreateTopic(1, name)
		assert.ErrorIs(t, err, ErrTopicNameEmpty)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrCreateTopicReturnsExisting(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewTopicService(db)

	mock.ExpectQuery(`SELECT \* FROM "topics" WHERE user_id = \$1 AND name = \$2`).
		WillReturnRows(sqlmock.NewRows(topicColumns()).
			AddRow(3, 1, "Filosofía", time.Now()))

	topic, created, err := svc.GetOrCreateTopic(1, "  Filosofía  ")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, uint(3), topic.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrCreateTopicCreatesNew(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewTopicService(db)

	mock.ExpectQuery(`SELECT \* FROM "topics" WHERE user_id = \$1 AND name = \$2`).
		WillReturnRows(sqlmock.NewRows(topicColumns()))
	mock.ExpectQuery(`INSERT INTO "topics"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))

	topic, created, err := svc.GetOrCreateTopic(1, "Cine")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, uint(4), topic.ID)
	assert.Equal(t, uint(1), topic.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOrCreateTopicLosesRaceGracefully(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewTopicService(db)

	// 并发下另一个请求先建了同名主题：唯一索引报冲突，读回赢家那条
	mock.ExpectQuery(`SELECT \* FROM "topics" WHERE user_id = \$1 AND name = \$2`).
		WillReturnRows(sqlmock.NewRows(topicColumns()))
	mock.ExpectQuery(`INSERT INTO "topics"`).
		WillReturnError(gorm.ErrDuplicatedKey)
	mock.ExpectQuery(`SELECT \* FROM "topics" WHERE user_id = \$1 AND name = \$2`).
		WillReturnRows(sqlmock.NewRows(topicColumns()).
			AddRow(8, 1, "Cine", time.Now()))

	topic, created, err := svc.GetOrCreateTopic(1, "Cine")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, uint(8), topic.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTopicRejectsDuplicateName(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewTopicService(db)

	mock.ExpectQuery(`SELECT \* FROM "topics" WHERE id = \$1 AND user_id = \$2`).
		WillReturnRows(sqlmock.NewRows(topicColumns()).
			AddRow(3, 1, "Viejo", time.Now()))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "topics" WHERE user_id = \$1 AND name = \$2 AND id <> \$3`).
		WithArgs(1, "Cine", 3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, err := svc.UpdateTopic(3, 1, "Cine")
	assert.ErrorIs(t, err, ErrTopicNameExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTopicNotFound(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewTopicService(db)

	mock.ExpectQuery(`SELECT \* FROM "topics" WHERE id = \$1 AND user_id = \$2`).
		WillReturnRows(sqlmock.NewRows(topicColumns()))

	_, err := svc.UpdateTopic(99, 1, "Cine")
	assert.ErrorIs(t, err, ErrTopicNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTopicUntagsQuotes(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewTopicService(db)

	// 删主题前先把引用解除关联，引用本身不能被删
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "topics" WHERE id = \$1 AND user_id = \$2`).
		WillReturnRows(sqlmock.NewRows(topicColumns()).
			AddRow(3, 1, "Cine", time.Now()))
	mock.ExpectExec(`UPDATE "quotes" SET`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "topics"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := svc.DeleteTopic(3, 1)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteTopicNotFound(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewTopicService(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "topics" WHERE id = \$1 AND user_id = \$2`).
		WillReturnRows(sqlmock.NewRows(topicColumns()))
	mock.ExpectRollback()

	err := svc.DeleteTopic(99, 1)
	assert.ErrorIs(t, err, ErrTopicNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTopicsWithCounts(t *testing.T) {
	db, mock := newTestDB(t)
	svc := NewTopicService(db)

	mock.ExpectQuery(`SELECT topics\..* FROM "topics" LEFT JOIN quotes ON quotes\.topic_id = topics\.id WHERE topics\.user_id = \$1 GROUP BY topics\.id ORDER BY topics\.name`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "created_at", "quote_count"}).
			AddRow(1, 1, "Cine", time.Now(), 2).
			AddRow(2, 1, "Filosofía", time.Now(), 0))

	topics, err := svc.GetTopics(1)
	require.NoError(t, err)
	require.Len(t, topics, 2)
	assert.Equal(t, 2, topics[0].QuoteCount)
	assert.Equal(t, 0, topics[1].QuoteCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}
