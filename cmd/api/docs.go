package main

// @title           VendaFlow CRM API
// @version         1.0
// @description     API do motor de documentos de venda do VendaFlow CRM: orçamentos, pedidos, faturas, pagamentos e notas de entrega com isolamento por tenant.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.email  suporte@vendaflow.com.br

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Cabeçalho de autenticação JWT usando o esquema Bearer. Exemplo: "Bearer {token}"
