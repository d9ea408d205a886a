//go:build lambda
// +build lambda

package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"

	"github.com/cyphera/order-mailer/internal/logger"
	"github.com/cyphera/order-mailer/internal/server"
)

var ginLambda *ginadapter.GinLambda

func init() {
	router, _, err := server.Bootstrap(context.Background())
	if err != nil {
		log.Fatalf("Failed to configure server: %v", err)
	}

	ginLambda = ginadapter.New(router)
}

func Handler(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	// The dump omits the body; it carries base64 images and customer data.
	dump := req
	dump.Body = ""
	logger.Debug("Received Lambda request",
		zap.String("path", req.Path),
		zap.String("request", spew.Sdump(dump)),
	)

	return ginLambda.ProxyWithContext(ctx, req)
}

func main() {
	defer logger.Sync()
	lambda.Start(Handler)
}
