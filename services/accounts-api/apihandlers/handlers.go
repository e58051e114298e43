package apihandlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	accountDB "github.com/OdamboMichael/ims.xp/pkg/db/account"
	globalinfosDB "github.com/OdamboMichael/ims.xp/pkg/db/global-infos"
	institutionDB "github.com/OdamboMichael/ims.xp/pkg/db/institution"
	messagingDB "github.com/OdamboMichael/ims.xp/pkg/db/messaging"
)

func HealthCheckHandle(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type HttpEndpoints struct {
	accountDBConn          *accountDB.AccountDBService
	institutionDBConn      *institutionDB.InstitutionDBService
	globalInfosDBConn      *globalinfosDB.GlobalInfosDBService
	messagingDBConn        *messagingDB.MessagingDBService
	tokenSignKey           string
	tokenExpiresIn         time.Duration
	allowedInstanceIDs     []string
	maxNewUsersPer5Minutes int
}

func NewHTTPHandler(
	tokenSignKey string,
	tokenExpiresIn time.Duration,
	accountDBConn *accountDB.AccountDBService,
	institutionDBConn *institutionDB.InstitutionDBService,
	globalInfosDBConn *globalinfosDB.GlobalInfosDBService,
	messagingDBConn *messagingDB.MessagingDBService,
	allowedInstanceIDs []string,
	maxNewUsersPer5Minutes int,
) *HttpEndpoints {
	return &HttpEndpoints{
		accountDBConn:          accountDBConn,
		institutionDBConn:      institutionDBConn,
		globalInfosDBConn:      globalInfosDBConn,
		messagingDBConn:        messagingDBConn,
		tokenSignKey:           tokenSignKey,
		tokenExpiresIn:         tokenExpiresIn,
		allowedInstanceIDs:     allowedInstanceIDs,
		maxNewUsersPer5Minutes: maxNewUsersPer5Minutes,
	}
}
