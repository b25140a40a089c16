package mib

// Well-known arcs.
var (
	// SysUpTimeOID is SNMPv2-MIB::sysUpTime.
	SysUpTimeOID = MustParseOID("1.3.6.1.2.1.1.3")

	// SNMPTrapOID is SNMPv2-MIB::snmpTrapOID.
	SNMPTrapOID = MustParseOID("1.3.6.1.6.3.1.1.4.1")

	// EnterpriseOID is the PROFTPD-MIB enterprise arc.
	EnterpriseOID = MustParseOID("1.3.6.1.4.1.17852")

	// BaseOID is the proftpd.modules.snmp arc under which every module
	// object is registered.
	BaseOID = EnterpriseOID.Append(2, 2)
)

// BaseLen is the number of sub-identifiers in BaseOID.
const BaseLen = 9

// Group arcs below BaseOID.
const (
	ArcConnection uint32 = 1
	ArcDaemon     uint32 = 2
	ArcFTP        uint32 = 3
	ArcSNMP       uint32 = 4
	ArcFTPS       uint32 = 5
	ArcSSH        uint32 = 6
	ArcSFTP       uint32 = 7
	ArcSCP        uint32 = 8

	// ArcNotifications holds the notification objects of a group.
	ArcNotifications uint32 = 1000
)

// RestartCountOID is the instance OID of daemon.restartCount, the one
// counter that survives ResetCounters.
var RestartCountOID = BaseOID.Append(ArcDaemon, 9, InstanceSuffix)

// arc builds an object OID below BaseOID.
func arc(arcs ...uint32) OID {
	return BaseOID.Append(arcs...)
}

// DefaultTable returns the PROFTPD-MIB object table in its curated order.
// The order is load-bearing for GetNext: entries outside BaseOID come
// first, followed by the module objects in ascending OID order.
func DefaultTable() []Entry {
	return []Entry{
		// Miscellaneous SNMPv2-MIB objects.
		Scalar(SysUpTimeOID, FieldNone, "sysUpTime", TypeTimeTicks),
		Scalar(SNMPTrapOID, FieldNone, "snmpTrapOID", TypeObjectIdentifier),

		// connection
		Scalar(arc(ArcConnection, 1), FieldConnServerName, "connection.serverName", TypeOctetString),
		Scalar(arc(ArcConnection, 2), FieldConnServerAddr, "connection.serverAddress", TypeOctetString),
		Scalar(arc(ArcConnection, 3), FieldConnServerPort, "connection.serverPort", TypeInteger),
		Scalar(arc(ArcConnection, 4), FieldConnClientAddr, "connection.clientAddress", TypeOctetString),
		Scalar(arc(ArcConnection, 5), FieldConnPID, "connection.processId", TypeInteger),
		Scalar(arc(ArcConnection, 6), FieldConnUserName, "connection.userName", TypeOctetString),
		Scalar(arc(ArcConnection, 7), FieldConnProtocol, "connection.protocol", TypeOctetString),

		// daemon
		Scalar(arc(ArcDaemon, 1), FieldDaemonSoftware, "daemon.software", TypeOctetString),
		Scalar(arc(ArcDaemon, 2), FieldDaemonVersion, "daemon.version", TypeOctetString),
		Scalar(arc(ArcDaemon, 3), FieldDaemonAdmin, "daemon.admin", TypeOctetString),
		Scalar(arc(ArcDaemon, 4), FieldDaemonUptime, "daemon.uptime", TypeTimeTicks),
		Scalar(arc(ArcDaemon, 5), FieldDaemonVhostCount, "daemon.vhostCount", TypeInteger),
		Scalar(arc(ArcDaemon, 6), FieldDaemonConnCount, "daemon.connectionCount", TypeGauge32),
		Scalar(arc(ArcDaemon, 7), FieldDaemonConnTotal, "daemon.connectionTotal", TypeCounter32),
		Scalar(arc(ArcDaemon, 8), FieldDaemonConnRefusedTotal, "daemon.connectionRefusedTotal", TypeCounter32),
		Scalar(arc(ArcDaemon, 9), FieldDaemonRestartCount, "daemon.restartCount", TypeCounter32),
		Scalar(arc(ArcDaemon, 10), FieldDaemonSegfaultCount, "daemon.segfaultCount", TypeCounter32),
		Scalar(arc(ArcDaemon, 11), FieldDaemonMaxInstTotal, "daemon.maxInstancesLimitTotal", TypeCounter32),
		Scalar(arc(ArcDaemon, 12), FieldDaemonMaxInstConf, "daemon.maxInstancesConfig", TypeInteger),
		Scalar(arc(ArcDaemon, ArcNotifications, 1), FieldNone, "daemon.daemonNotifications.maxInstancesExceeded", TypeNull),

		// ftp.sessions
		Scalar(arc(ArcFTP, 1, 1), FieldFTPSessCount, "ftp.sessions.sessionCount", TypeGauge32),
		Scalar(arc(ArcFTP, 1, 2), FieldFTPSessTotal, "ftp.sessions.sessionTotal", TypeCounter32),
		Scalar(arc(ArcFTP, 1, 3), FieldFTPSessCmdInvalidTotal, "ftp.sessions.commandInvalidTotal", TypeCounter32),

		// ftp.logins
		Scalar(arc(ArcFTP, 2, 1), FieldFTPLoginsTotal, "ftp.logins.loginTotal", TypeCounter32),
		Scalar(arc(ArcFTP, 2, 2), FieldFTPLoginsErrTotal, "ftp.logins.loginFailedTotal", TypeCounter32),
		Scalar(arc(ArcFTP, 2, 3), FieldFTPLoginsErrBadUserTotal, "ftp.logins.loginBadUserTotal", TypeCounter32),
		Scalar(arc(ArcFTP, 2, 4), FieldFTPLoginsErrBadPasswordTotal, "ftp.logins.loginBadPasswordTotal", TypeCounter32),
		Scalar(arc(ArcFTP, 2, 5), FieldFTPLoginsErrGeneralTotal, "ftp.logins.loginGeneralErrorTotal", TypeCounter32),
		Scalar(arc(ArcFTP, 2, 6), FieldFTPLoginsAnonCount, "ftp.logins.anonLoginCount", TypeGauge32),
		Scalar(arc(ArcFTP, 2, 7), FieldFTPLoginsAnonTotal, "ftp.logins.anonLoginTotal", TypeCounter32),

		// ftp.dataTransfers
		Scalar(arc(ArcFTP, 3, 1), FieldFTPXferDirListCount, "ftp.dataTransfers.dirListCount", TypeGauge32),
		Scalar(arc(ArcFTP, 3, 2), FieldFTPXferDirListTotal, "ftp.dataTransfers.dirListTotal", TypeCounter32),
		Scalar(arc(ArcFTP, 3, 3), FieldFTPXferDirListErrTotal, "ftp.dataTransfers.dirListFailedTotal", TypeCounter32),
		Scalar(arc(ArcFTP, 3, 4), FieldFTPXferFileUploadCount, "ftp.dataTransfers.fileUploadCount", TypeGauge32),
		Scalar(arc(ArcFTP, 3, 5), FieldFTPXferFileUploadTotal, "ftp.dataTransfers.fileUploadTotal", TypeCounter32),
		Scalar(arc(ArcFTP, 3, 6), FieldFTPXferFileUploadErrTotal, "ftp.dataTransfers.fileUploadFailedTotal", TypeCounter32),
		Scalar(arc(ArcFTP, 3, 7), FieldFTPXferFileDownloadCount, "ftp.dataTransfers.fileDownloadCount", TypeGauge32),
		Scalar(arc(ArcFTP, 3, 8), FieldFTPXferFileDownloadTotal, "ftp.dataTransfers.fileDownloadTotal", TypeCounter32),
		Scalar(arc(ArcFTP, 3, 9), FieldFTPXferFileDownloadErrTotal, "ftp.dataTransfers.fileDownloadFailedTotal", TypeCounter32),
		Scalar(arc(ArcFTP, 3, 10), FieldFTPXferKBUploadTotal, "ftp.dataTransfers.kbUploadTotal", TypeCounter32),
		Scalar(arc(ArcFTP, 3, 11), FieldFTPXferKBDownloadTotal, "ftp.dataTransfers.kbDownloadTotal", TypeCounter32),

		// ftp.timeouts
		Scalar(arc(ArcFTP, 4, 1), FieldTimeoutsIdleTotal, "ftp.timeouts.idleTimeoutTotal", TypeCounter32),
		Scalar(arc(ArcFTP, 4, 2), FieldTimeoutsLoginTotal, "ftp.timeouts.loginTimeoutTotal", TypeCounter32),
		Scalar(arc(ArcFTP, 4, 3), FieldTimeoutsNoXferTotal, "ftp.timeouts.noTransferTimeoutTotal", TypeCounter32),
		Scalar(arc(ArcFTP, 4, 4), FieldTimeoutsStalledTotal, "ftp.timeouts.stalledTimeoutTotal", TypeCounter32),

		// ftp.ftpNotifications
		Scalar(arc(ArcFTP, ArcNotifications, 1), FieldNone, "ftp.ftpNotifications.loginBadPassword", TypeNull),
		Scalar(arc(ArcFTP, ArcNotifications, 2), FieldNone, "ftp.ftpNotifications.loginBadUser", TypeNull),

		// snmp
		Scalar(arc(ArcSNMP, 1), FieldSNMPPktsRecvTotal, "snmp.packetsReceivedTotal", TypeCounter32),
		Scalar(arc(ArcSNMP, 2), FieldSNMPPktsSentTotal, "snmp.packetsSentTotal", TypeCounter32),
		Scalar(arc(ArcSNMP, 3), FieldSNMPTrapsSentTotal, "snmp.trapsSentTotal", TypeCounter32),
		Scalar(arc(ArcSNMP, 4), FieldSNMPPktsAuthErrTotal, "snmp.packetsAuthFailedTotal", TypeCounter32),
		Scalar(arc(ArcSNMP, 5), FieldSNMPPktsDroppedTotal, "snmp.packetsDroppedTotal", TypeCounter32),

		// ftps.tlsSessions
		Scalar(arc(ArcFTPS, 1, 1), FieldTLSSessCount, "ftps.tlsSessions.sessionCount", TypeGauge32),
		Scalar(arc(ArcFTPS, 1, 2), FieldTLSSessTotal, "ftps.tlsSessions.sessionTotal", TypeCounter32),
		Scalar(arc(ArcFTPS, 1, 3), FieldTLSSessCtrlHandshakeErrTotal, "ftps.tlsSessions.ctrlHandshakeFailureTotal", TypeCounter32),
		Scalar(arc(ArcFTPS, 1, 4), FieldTLSSessDataHandshakeErrTotal, "ftps.tlsSessions.dataHandshakeFailureTotal", TypeCounter32),

		// ftps.tlsLogins
		Scalar(arc(ArcFTPS, 2, 1), FieldTLSLoginsTotal, "ftps.tlsLogins.loginTotal", TypeCounter32),
		Scalar(arc(ArcFTPS, 2, 2), FieldTLSLoginsErrTotal, "ftps.tlsLogins.loginFailedTotal", TypeCounter32),

		// ftps.tlsDataTransfers
		Scalar(arc(ArcFTPS, 3, 1), FieldTLSXferDirListCount, "ftps.tlsDataTransfers.dirListCount", TypeGauge32),
		Scalar(arc(ArcFTPS, 3, 2), FieldTLSXferDirListTotal, "ftps.tlsDataTransfers.dirListTotal", TypeCounter32),
		Scalar(arc(ArcFTPS, 3, 3), FieldTLSXferDirListErrTotal, "ftps.tlsDataTransfers.dirListFailedTotal", TypeCounter32),
		Scalar(arc(ArcFTPS, 3, 4), FieldTLSXferFileUploadCount, "ftps.tlsDataTransfers.fileUploadCount", TypeGauge32),
		Scalar(arc(ArcFTPS, 3, 5), FieldTLSXferFileUploadTotal, "ftps.tlsDataTransfers.fileUploadTotal", TypeCounter32),
		Scalar(arc(ArcFTPS, 3, 6), FieldTLSXferFileUploadErrTotal, "ftps.tlsDataTransfers.fileUploadFailedTotal", TypeCounter32),
		Scalar(arc(ArcFTPS, 3, 7), FieldTLSXferFileDownloadCount, "ftps.tlsDataTransfers.fileDownloadCount", TypeGauge32),
		Scalar(arc(ArcFTPS, 3, 8), FieldTLSXferFileDownloadTotal, "ftps.tlsDataTransfers.fileDownloadTotal", TypeCounter32),
		Scalar(arc(ArcFTPS, 3, 9), FieldTLSXferFileDownloadErrTotal, "ftps.tlsDataTransfers.fileDownloadFailedTotal", TypeCounter32),
		Scalar(arc(ArcFTPS, 3, 10), FieldTLSXferKBUploadTotal, "ftps.tlsDataTransfers.kbUploadTotal", TypeCounter32),
		Scalar(arc(ArcFTPS, 3, 11), FieldTLSXferKBDownloadTotal, "ftps.tlsDataTransfers.kbDownloadTotal", TypeCounter32),

		// ssh.sshSessions
		Scalar(arc(ArcSSH, 1, 1), FieldSSHSessKexErrTotal, "ssh.sshSessions.keyExchangeFailureTotal", TypeCounter32),
		Scalar(arc(ArcSSH, 1, 2), FieldSSHSessClientCompressionTotal, "ssh.sshSessions.clientCompressionTotal", TypeCounter32),
		Scalar(arc(ArcSSH, 1, 3), FieldSSHSessServerCompressionTotal, "ssh.sshSessions.serverCompressionTotal", TypeCounter32),

		// ssh.sshLogins
		Scalar(arc(ArcSSH, 2, 1), FieldSSHLoginsHostbasedTotal, "ssh.sshLogins.hostbasedAuthTotal", TypeCounter32),
		Scalar(arc(ArcSSH, 2, 2), FieldSSHLoginsHostbasedErrTotal, "ssh.sshLogins.hostbasedAuthFailureTotal", TypeCounter32),
		Scalar(arc(ArcSSH, 2, 3), FieldSSHLoginsKbdintTotal, "ssh.sshLogins.keyboardInteractiveAuthTotal", TypeCounter32),
		Scalar(arc(ArcSSH, 2, 4), FieldSSHLoginsKbdintErrTotal, "ssh.sshLogins.keyboardInteractiveAuthFailureTotal", TypeCounter32),
		Scalar(arc(ArcSSH, 2, 5), FieldSSHLoginsPasswordTotal, "ssh.sshLogins.passwordAuthTotal", TypeCounter32),
		Scalar(arc(ArcSSH, 2, 6), FieldSSHLoginsPasswordErrTotal, "ssh.sshLogins.passwordAuthFailureTotal", TypeCounter32),
		Scalar(arc(ArcSSH, 2, 7), FieldSSHLoginsPublickeyTotal, "ssh.sshLogins.publickeyAuthTotal", TypeCounter32),
		Scalar(arc(ArcSSH, 2, 8), FieldSSHLoginsPublickeyErrTotal, "ssh.sshLogins.publickeyAuthFailureTotal", TypeCounter32),

		// sftp.sftpSessions
		Scalar(arc(ArcSFTP, 1, 1), FieldSFTPSessCount, "sftp.sftpSessions.sessionCount", TypeGauge32),
		Scalar(arc(ArcSFTP, 1, 2), FieldSFTPSessTotal, "sftp.sftpSessions.sessionTotal", TypeCounter32),
		Scalar(arc(ArcSFTP, 1, 3), FieldSFTPSessProtocolV3Total, "sftp.sftpSessions.protocolVersion3Total", TypeCounter32),
		Scalar(arc(ArcSFTP, 1, 4), FieldSFTPSessProtocolV4Total, "sftp.sftpSessions.protocolVersion4Total", TypeCounter32),
		Scalar(arc(ArcSFTP, 1, 5), FieldSFTPSessProtocolV5Total, "sftp.sftpSessions.protocolVersion5Total", TypeCounter32),
		Scalar(arc(ArcSFTP, 1, 6), FieldSFTPSessProtocolV6Total, "sftp.sftpSessions.protocolVersion6Total", TypeCounter32),

		// sftp.sftpDataTransfers
		Scalar(arc(ArcSFTP, 2, 1), FieldSFTPXferDirListCount, "sftp.sftpDataTransfers.dirListCount", TypeGauge32),
		Scalar(arc(ArcSFTP, 2, 2), FieldSFTPXferDirListTotal, "sftp.sftpDataTransfers.dirListTotal", TypeCounter32),
		Scalar(arc(ArcSFTP, 2, 3), FieldSFTPXferDirListErrTotal, "sftp.sftpDataTransfers.dirListFailedTotal", TypeCounter32),
		Scalar(arc(ArcSFTP, 2, 4), FieldSFTPXferFileUploadCount, "sftp.sftpDataTransfers.fileUploadCount", TypeGauge32),
		Scalar(arc(ArcSFTP, 2, 5), FieldSFTPXferFileUploadTotal, "sftp.sftpDataTransfers.fileUploadTotal", TypeCounter32),
		Scalar(arc(ArcSFTP, 2, 6), FieldSFTPXferFileUploadErrTotal, "sftp.sftpDataTransfers.fileUploadFailedTotal", TypeCounter32),
		Scalar(arc(ArcSFTP, 2, 7), FieldSFTPXferFileDownloadCount, "sftp.sftpDataTransfers.fileDownloadCount", TypeGauge32),
		Scalar(arc(ArcSFTP, 2, 8), FieldSFTPXferFileDownloadTotal, "sftp.sftpDataTransfers.fileDownloadTotal", TypeCounter32),
		Scalar(arc(ArcSFTP, 2, 9), FieldSFTPXferFileDownloadErrTotal, "sftp.sftpDataTransfers.fileDownloadFailedTotal", TypeCounter32),
		Scalar(arc(ArcSFTP, 2, 10), FieldSFTPXferKBUploadTotal, "sftp.sftpDataTransfers.kbUploadTotal", TypeCounter32),
		Scalar(arc(ArcSFTP, 2, 11), FieldSFTPXferKBDownloadTotal, "sftp.sftpDataTransfers.kbDownloadTotal", TypeCounter32),

		// scp.scpSessions
		Scalar(arc(ArcSCP, 1, 1), FieldSCPSessCount, "scp.scpSessions.sessionCount", TypeGauge32),
		Scalar(arc(ArcSCP, 1, 2), FieldSCPSessTotal, "scp.scpSessions.sessionTotal", TypeCounter32),

		// scp.scpDataTransfers
		Scalar(arc(ArcSCP, 2, 1), FieldSCPXferFileUploadCount, "scp.scpDataTransfers.fileUploadCount", TypeGauge32),
		Scalar(arc(ArcSCP, 2, 2), FieldSCPXferFileUploadTotal, "scp.scpDataTransfers.fileUploadTotal", TypeCounter32),
		Scalar(arc(ArcSCP, 2, 3), FieldSCPXferFileUploadErrTotal, "scp.scpDataTransfers.fileUploadFailedTotal", TypeCounter32),
		Scalar(arc(ArcSCP, 2, 4), FieldSCPXferFileDownloadCount, "scp.scpDataTransfers.fileDownloadCount", TypeGauge32),
		Scalar(arc(ArcSCP, 2, 5), FieldSCPXferFileDownloadTotal, "scp.scpDataTransfers.fileDownloadTotal", TypeCounter32),
		Scalar(arc(ArcSCP, 2, 6), FieldSCPXferFileDownloadErrTotal, "scp.scpDataTransfers.fileDownloadFailedTotal", TypeCounter32),
		Scalar(arc(ArcSCP, 2, 7), FieldSCPXferKBUploadTotal, "scp.scpDataTransfers.kbUploadTotal", TypeCounter32),
		Scalar(arc(ArcSCP, 2, 8), FieldSCPXferKBDownloadTotal, "scp.scpDataTransfers.kbDownloadTotal", TypeCounter32),
	}
}
